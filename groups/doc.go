// Package groups binds site entities to the template engine.
//
// A [Store] is loaded from one or more YAML fixture files and holds the site,
// its users, taxonomy terms, posts, orders and timeline statuses. [Bind]
// registers the groups of one request on a [lang.Scope]:
//
//	site    always; methods meta, math, query_var and post_count
//	post    the selected post, with "author" for its author
//	user    the current user
//	order   the selected order
//	term    the selected term
//	status  the selected timeline status
//
// Entities reference each other through properties that export another
// group type, e.g. post.author is a user and order.items.product is a post.
// [Catalog] describes every group type for [lang.Export] and [Rules] adds the
// user, post and query-variable visibility rules.
package groups
