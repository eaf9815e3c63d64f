// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/inventory_repository.go -destination=inventory_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/maintenance_repository.go -destination=maintenance_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/motorcycle_repository.go -destination=motorcycle_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/inventory_service.go -destination=inventory_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/maintenance_service.go -destination=maintenance_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/tasks.go -destination=tasks_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/notifications.go -destination=notifications_mock.go -package=mocks
