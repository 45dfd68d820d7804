// Package topicmgr keeps the catalog of known notification topics.
//
// Topics are plain strings on the wire, but the application works with a
// closed set of them. A Manager records each topic's owning module, a
// description and an example payload so that the CLI and the debug endpoints
// can enumerate them, and so the hub can flag names nobody registered.
//
// A Manager is constructed explicitly and passed to the components that need
// it:
//
//	mgr := topicmgr.NewManager()
//	if err := mgr.Register(topicmgr.Define(topicmgr.TopicConfig{
//		Name:        "agents_changed",
//		Module:      "catalog",
//		Description: "Agent records were created, updated or deleted",
//		Example:     `{"entityId":"7"}`,
//	})); err != nil {
//		return err
//	}
package topicmgr
