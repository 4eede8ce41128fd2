// Package lookout prepares list queries that can be executed once or
// observed as a live sequence of results.
//
// A prepared query binds a descriptor (what to read), a resolver (how to
// obtain a cursor for it), and a mapper (how to turn one row into one
// value). Preparation is done through a fluent builder:
//
//	users, err := lookout.NewList[User](db).
//		WithQuery(query.Query{Table: "users", OrderBy: "name ASC"}).
//		WithMapper(mapUser).
//		Build()
//	if err != nil {
//		return err
//	}
//
//	// one shot
//	list, err := users.ExecuteBlocking(ctx)
//
//	// live: first result immediately, then one result per change to "users"
//	for res := range users.Observe(ctx) {
//		if res.Err != nil {
//			return res.Err
//		}
//		render(res.Rows)
//	}
//
// ExecuteBlocking performs blocking I/O and belongs on a worker
// goroutine. Observe and ExecuteAsync run it on their own goroutine and
// deliver results over a channel; cancelling the context is the
// unsubscription signal.
package lookout
