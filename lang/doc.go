// Package lang implements the template language: a tokenizer for dynamic
// tags embedded in literal text, and a renderer that resolves those tags
// against groups of entity data registered on a [Scope].
//
// # Syntax
//
// A dynamic tag names a group, a dotted property path and any number of
// modifier calls:
//
//	@group(path.to.property).modifier(arg1, arg2).modifier()
//
// Keys consist of letters, digits, '_', '-' and ':'. Within a path, '\.'
// and '\)' escape the separator and the closing parenthesis. Within modifier
// arguments, '\,', '\(', '\)' and '\\' escape their characters. An argument
// containing parentheses is dynamic: it may hold a nested tag, which is
// rendered before the modifier sees it.
//
// Anything that is not a well-formed tag is literal text, so e-mail addresses
// and stray '@' characters pass through unchanged. [Tokenize] never fails,
// and concatenating the String form of its tokens reproduces the input.
//
// # Data
//
// A [Group] is rooted at an [Object]. Objects hold [Properties], which are
// scalar [Value] nodes, nested objects, or [ObjectList] nodes whose children
// address the item at the list's cursor. Properties are built lazily and
// cached for the life of the scope, and aliases let one key stand for
// another path.
//
// # Modifiers
//
// Modifiers are applied left to right. A [Function] transforms the current
// value. A [Control] tests it: consecutive controls form a chain whose
// "then" and "else" branches replace the value, and a chain without branches
// leaves its boolean result. A [Method] is answered by the group itself and
// only by groups that declare it.
//
// # Rendering
//
// [Scope.Render] never fails. Unknown groups render verbatim, missing
// properties render empty, and a panic raised by a single tag is logged and
// rendered empty. [Parse] caches token streams by content hash, so templates
// rendered repeatedly are tokenized once per process.
//
// # Schema
//
// [Export] describes every group type of a [Catalog], every modifier and
// every visibility rule, following exports references between group types
// for at most [MaxExportPasses] passes.
package lang
