package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MARUGO-s/app-sub001/internal/mealplan"
	"github.com/MARUGO-s/app-sub001/internal/types"
)

// MockRecipeRepository is a mock implementation of the recipe repository
type MockRecipeRepository struct {
	mock.Mock
}

// FetchRecipes mocks the FetchRecipes method
func (m *MockRecipeRepository) FetchRecipes(ctx context.Context, ownerID string) ([]types.Recipe, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Recipe), args.Error(1)
}

// MockInventoryRepository is a mock implementation of the inventory repository
type MockInventoryRepository struct {
	mock.Mock
}

// GetAll mocks the GetAll method
func (m *MockInventoryRepository) GetAll(ctx context.Context, ownerID string) ([]types.StockRow, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.StockRow), args.Error(1)
}

// MockPackagingRepository is a mock implementation of the packaging repository
type MockPackagingRepository struct {
	mock.Mock
}

// GetAllConversions mocks the GetAllConversions method
func (m *MockPackagingRepository) GetAllConversions(ctx context.Context) (map[string]types.PackagingProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]types.PackagingProfile), args.Error(1)
}

// MockPriceRepository is a mock implementation of the price sheet repository
type MockPriceRepository struct {
	mock.Mock
}

// FetchPriceList mocks the FetchPriceList method
func (m *MockPriceRepository) FetchPriceList(ctx context.Context, ownerID string) (map[string]types.PriceEntry, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]types.PriceEntry), args.Error(1)
}

// MockUnitOverrideRepository is a mock implementation of the unit override repository
type MockUnitOverrideRepository struct {
	mock.Mock
}

// GetAll mocks the GetAll method
func (m *MockUnitOverrideRepository) GetAll(ctx context.Context, ownerID string) (map[string]string, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockPlanSource is a mock implementation of the meal calendar source
type MockPlanSource struct {
	mock.Mock
}

// GetAll mocks the GetAll method
func (m *MockPlanSource) GetAll(ctx context.Context, ownerID string) (mealplan.PlanMap, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(mealplan.PlanMap), args.Error(1)
}
