// Package plancache memoises generated address plans in SQLite.
//
// A plan is identified by Key, a SHA-256 over the canonical CBOR encoding
// of the structure mode and the building model. Because the generator is
// deterministic, equal keys always map to equal rows, so a cached plan can
// be returned without regenerating.
//
//	store, err := plancache.Open(ctx, cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	key, err := plancache.Key(mode, model)
//	rows, ok, err := store.Get(ctx, key)
package plancache
