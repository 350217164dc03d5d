package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/dmirandah/accionpro/pkg/marketdata/provider Provider
//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/dmirandah/accionpro/internal/datasource DataSource
