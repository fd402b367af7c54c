// Package component defines the lifecycle contract shared by reststack
// resources and a registry that starts and stops them in order.
//
//	reg := component.NewRegistry(log)
//	_ = reg.Register(rest.NewComponent("api", cfg))
//	if err := reg.StartAll(ctx); err != nil { ... }
//	defer reg.StopAll(context.Background())
package component
