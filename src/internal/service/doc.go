// Package service provides the registration orchestration layer for sleep-proxy-client.
//
// This package ties the domain components together: for every selected interface it
// resolves addresses, discovers local services and visible sleep proxies, builds the
// update request and hands it to the sender. Both the CLI and the HTTP API call into
// this package, so a registration behaves the same regardless of how it was triggered.
//
// # Failure isolation
//
// Each interface is processed independently. A failing interface is reported in its
// InterfaceResult and never aborts the remaining interfaces.
//
// # Example Usage
//
//	deps := domain.NewAppDependencies(cfg)
//	opts, err := service.OptionsFromConfig(cfg)
//	if err != nil {
//	    log.Fatalf("%v", err)
//	}
//
//	svc := service.NewRegistrationService(deps, opts)
//	results := svc.RegisterInterfaces(ctx, cfg.General.Interfaces)
package service
