package groups

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/vxs/lang"
	"github.com/ardnew/vxs/log"
)

// Predefined errors (sentinel values).
var (
	ErrReadFixture   = lang.NewError("failed to read fixture")
	ErrDecodeFixture = lang.NewError("failed to decode fixture")
	ErrNotFound      = lang.NewError("entity not found")
)

// Store holds the entities rendered by the groups. It is populated from YAML
// fixture files and is read-only once loaded.
type Store struct {
	Site      Site              `yaml:"site"`
	QueryVars map[string]string `yaml:"query_vars"`
	Users     []User            `yaml:"users"`
	Terms     []Term            `yaml:"terms"`
	Posts     []Post            `yaml:"posts"`
	Orders    []Order           `yaml:"orders"`
	Statuses  []Status          `yaml:"statuses"`
}

// Site describes the site the templates are rendered for.
type Site struct {
	Meta     map[string]any `yaml:"meta"`
	Title    string         `yaml:"title"`
	Tagline  string         `yaml:"tagline"`
	URL      string         `yaml:"url"`
	Email    string         `yaml:"email"`
	Language string         `yaml:"language"`
	Timezone string         `yaml:"timezone"`
	Currency string         `yaml:"currency"`
	Logo     string         `yaml:"logo"`
}

// User is a registered site member.
type User struct {
	Meta        map[string]any `yaml:"meta"`
	Registered  time.Time      `yaml:"registered"`
	Birthday    time.Time      `yaml:"birthday"`
	Username    string         `yaml:"username"`
	DisplayName string         `yaml:"display_name"`
	FirstName   string         `yaml:"first_name"`
	LastName    string         `yaml:"last_name"`
	Email       string         `yaml:"email"`
	URL         string         `yaml:"url"`
	Avatar      string         `yaml:"avatar"`
	Bio         string         `yaml:"bio"`
	Roles       []string       `yaml:"roles"`
	ID          int64          `yaml:"id"`
}

// Term is a taxonomy term such as a category or tag.
type Term struct {
	Meta        map[string]any `yaml:"meta"`
	Taxonomy    string         `yaml:"taxonomy"`
	Slug        string         `yaml:"slug"`
	Label       string         `yaml:"label"`
	Description string         `yaml:"description"`
	Color       string         `yaml:"color"`
	Icon        string         `yaml:"icon"`
	ID          int64          `yaml:"id"`
	Parent      int64          `yaml:"parent"`
}

// Post is a published entry of any post type.
type Post struct {
	Meta     map[string]any     `yaml:"meta"`
	Fields   map[string]any     `yaml:"fields"`
	Terms    map[string][]int64 `yaml:"terms"`
	Date     time.Time          `yaml:"date"`
	Modified time.Time          `yaml:"modified"`
	Type     string             `yaml:"type"`
	Slug     string             `yaml:"slug"`
	Title    string             `yaml:"title"`
	Content  string             `yaml:"content"`
	Excerpt  string             `yaml:"excerpt"`
	Status   string             `yaml:"status"`
	Image    string             `yaml:"image"`
	ID       int64              `yaml:"id"`
	Author   int64              `yaml:"author"`
}

// Order is a customer order.
type Order struct {
	Created  time.Time   `yaml:"created"`
	Status   string      `yaml:"status"`
	Currency string      `yaml:"currency"`
	Items    []OrderItem `yaml:"items"`
	ID       int64       `yaml:"id"`
	Customer int64       `yaml:"customer"`
	Shipping float64     `yaml:"shipping"`
	Tax      float64     `yaml:"tax"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	Product  int64   `yaml:"product"`
	Quantity int64   `yaml:"quantity"`
	Price    float64 `yaml:"price"`
}

// Status is a timeline status update.
type Status struct {
	Created time.Time `yaml:"created"`
	Content string    `yaml:"content"`
	ID      int64     `yaml:"id"`
	Author  int64     `yaml:"author"`
	Post    int64     `yaml:"post"`
	Likes   int64     `yaml:"likes"`
	Replies int64     `yaml:"replies"`
}

// Load reads and merges the fixture files at paths, in order.
func Load(ctx context.Context, paths ...string) (*Store, error) {
	store := &Store{}

	for _, path := range paths {
		part, err := loadFile(ctx, path)
		if err != nil {
			return nil, err
		}

		store.Merge(part)
	}

	return store, nil
}

func loadFile(ctx context.Context, path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadFixture.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	store, err := Decode(ctx, f)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("path", path))
	}

	return store, nil
}

// Decode reads one fixture document from r.
func Decode(ctx context.Context, r io.Reader) (*Store, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadFixture.Wrap(err)
	}

	var store Store

	err = yaml.UnmarshalContext(ctx, data, &store, yaml.Strict())
	if err != nil {
		return nil, ErrDecodeFixture.Wrap(err)
	}

	log.TraceContext(ctx, "decode fixture",
		slog.Int("bytes", len(data)),
		slog.Int("users", len(store.Users)),
		slog.Int("terms", len(store.Terms)),
		slog.Int("posts", len(store.Posts)),
		slog.Int("orders", len(store.Orders)),
		slog.Int("statuses", len(store.Statuses)),
	)

	return &store, nil
}

// Merge adds the entities of other to s. Site fields set in other replace
// those of s, entities with an ID already present replace the existing one
// and query variables are merged key by key.
func (s *Store) Merge(other *Store) {
	s.Site = Site{
		Meta:     mergeMaps(s.Site.Meta, other.Site.Meta),
		Title:    cmp.Or(other.Site.Title, s.Site.Title),
		Tagline:  cmp.Or(other.Site.Tagline, s.Site.Tagline),
		URL:      cmp.Or(other.Site.URL, s.Site.URL),
		Email:    cmp.Or(other.Site.Email, s.Site.Email),
		Language: cmp.Or(other.Site.Language, s.Site.Language),
		Timezone: cmp.Or(other.Site.Timezone, s.Site.Timezone),
		Currency: cmp.Or(other.Site.Currency, s.Site.Currency),
		Logo:     cmp.Or(other.Site.Logo, s.Site.Logo),
	}

	s.QueryVars = mergeMaps(s.QueryVars, other.QueryVars)
	s.Users = upsert(s.Users, other.Users, func(u User) int64 { return u.ID })
	s.Terms = upsert(s.Terms, other.Terms, func(t Term) int64 { return t.ID })
	s.Posts = upsert(s.Posts, other.Posts, func(p Post) int64 { return p.ID })
	s.Orders = upsert(s.Orders, other.Orders, func(o Order) int64 { return o.ID })
	s.Statuses = upsert(s.Statuses, other.Statuses, func(st Status) int64 { return st.ID })
}

func mergeMaps[M ~map[K]V, K comparable, V any](dst, src M) M {
	if len(src) == 0 {
		return dst
	}

	if dst == nil {
		dst = make(M, len(src))
	}

	maps.Copy(dst, src)

	return dst
}

func upsert[T any](dst, src []T, id func(T) int64) []T {
	for _, v := range src {
		i := slices.IndexFunc(dst, func(e T) bool { return id(e) == id(v) })
		if i < 0 {
			dst = append(dst, v)
		} else {
			dst[i] = v
		}
	}

	return dst
}

func find[T any](items []T, id int64, key func(*T) int64) (*T, bool) {
	for i := range items {
		if key(&items[i]) == id {
			return &items[i], true
		}
	}

	return nil, false
}

// User returns the user with the given ID.
func (s *Store) User(id int64) (*User, bool) {
	return find(s.Users, id, func(u *User) int64 { return u.ID })
}

// Term returns the term with the given ID.
func (s *Store) Term(id int64) (*Term, bool) {
	return find(s.Terms, id, func(t *Term) int64 { return t.ID })
}

// Post returns the post with the given ID.
func (s *Store) Post(id int64) (*Post, bool) {
	return find(s.Posts, id, func(p *Post) int64 { return p.ID })
}

// Order returns the order with the given ID.
func (s *Store) Order(id int64) (*Order, bool) {
	return find(s.Orders, id, func(o *Order) int64 { return o.ID })
}

// Status returns the status with the given ID.
func (s *Store) Status(id int64) (*Status, bool) {
	return find(s.Statuses, id, func(st *Status) int64 { return st.ID })
}

// CountPosts returns the number of published posts of the given type.
func (s *Store) CountPosts(kind string) int {
	n := 0

	for _, p := range s.Posts {
		if p.Type == kind && published(p.Status) {
			n++
		}
	}

	return n
}

// CountTermPosts returns the number of published posts assigned to the term.
func (s *Store) CountTermPosts(t *Term) int {
	n := 0

	for _, p := range s.Posts {
		if published(p.Status) && slices.Contains(p.Terms[t.Taxonomy], t.ID) {
			n++
		}
	}

	return n
}

// CountAuthorPosts returns the number of published posts written by user id.
func (s *Store) CountAuthorPosts(id int64) int {
	n := 0

	for _, p := range s.Posts {
		if p.Author == id && published(p.Status) {
			n++
		}
	}

	return n
}

// Taxonomies returns the taxonomy keys used by the stored terms, sorted.
func (s *Store) Taxonomies() []string {
	var keys []string

	for _, t := range s.Terms {
		if !slices.Contains(keys, t.Taxonomy) {
			keys = append(keys, t.Taxonomy)
		}
	}

	slices.Sort(keys)

	return keys
}

func published(status string) bool {
	return status == "" || status == "publish"
}
