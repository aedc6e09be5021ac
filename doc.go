// Package findlight is an in-page find-and-highlight engine for HTML
// documents: given a query and match options it locates every visible
// occurrence, marks them through a pluggable highlight capability, and
// exposes cyclic navigation over the result set.
//
//	engine, _ := findlight.ParseString(page, findlight.WithMarkRenderer())
//	res, _ := engine.Search(ctx, "needle", findlight.SearchOptions{WholeWord: true})
//	fmt.Println(res.TotalCount) // matches, first one current
//	engine.Next()               // wraps past the last match
//	html, _ := engine.RenderHTML()
//
// Searches are debounced: rapid successive Search calls supersede each
// other and only the latest call's result is ever applied
// (last-call-wins). A superseded call never produces a result; Search
// honors its context so callers time out instead of hanging.
//
// Match spans reference live document nodes. If the document mutates
// after a search, held spans are stale and highlight or scroll
// behavior on them is undefined; call Clear and search again.
package findlight
