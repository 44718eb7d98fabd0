// Package planner orchestrates a generation run.
//
// The generator is pure; everything with side effects happens here:
// optional export validation, plan cache lookup and store, generation
// metrics, and publishing over MQTT. Each collaborator is optional and
// defaults to a no-op.
//
//	svc := planner.NewService()
//	svc.SetCache(store, cfg.Cache.Keep)
//	svc.SetLogger(logger)
//
//	res, err := svc.Plan(ctx, model, planner.Request{Validate: true})
package planner
