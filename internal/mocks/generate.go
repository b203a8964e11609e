// Package mocks provides gomock implementations of the dashboard ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockResourceAPI(ctrl)
//	api.EXPECT().Fetch(gomock.Any(), dashboard.ResourceUsers, "tok").Return(raw, nil)
package mocks

// Generate mock for ResourceAPI interface from internal/ports package.
// This creates MockResourceAPI with methods: Fetch, Mutate
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=resource_api_mock.go github.com/ai-ikigai/admin-dashboard/internal/ports ResourceAPI

// Generate mock for SessionProvider interface from internal/ports package.
// This creates MockSessionProvider with methods: CurrentSession, SignOut
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_provider_mock.go github.com/ai-ikigai/admin-dashboard/internal/ports SessionProvider
