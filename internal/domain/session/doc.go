// Package session owns the per-window browser state.
//
// A Session bundles navigation, clipboard and a worker pool, replacing a
// process-wide model with an explicit value. Foreground operations run
// through Session.Do, which serializes them the way a single UI thread
// would; background jobs run in the session's pool and outlive the call
// that started them.
//
// Manager creates, looks up and closes sessions by ID.
//
//	mgr := session.NewManager(engine, session.Options{...})
//	s, err := mgr.Create("/home/ada")
//	err = s.Do(func() error { return s.Nav.JumpToBreadcrumbSegment(0) })
package session
