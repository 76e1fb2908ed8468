package customers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCreateAndGet(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	c, err := repo.Create(ctx, &CreateCustomerRequest{Name: "Ana Velez", Email: "ana@example.com", DiscountPct: 10})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Velez", got.Name)
	assert.Equal(t, 10, got.DiscountPct)
}

func TestInMemoryGetMissing(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCreateValidation(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, &CreateCustomerRequest{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = repo.Create(ctx, &CreateCustomerRequest{Name: "Bo"})
	assert.ErrorIs(t, err, ErrMissingContact)

	_, err = repo.Create(ctx, &CreateCustomerRequest{Name: "Bo", Email: "bo@example.com", DiscountPct: 120})
	assert.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestSaveAddress(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	c, err := repo.Create(ctx, &CreateCustomerRequest{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	require.NoError(t, repo.SaveAddress(ctx, c.ID, "12 Maple St"))
	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "12 Maple St", got.Address)

	assert.ErrorIs(t, repo.SaveAddress(ctx, uuid.New(), "x"), ErrCustomerNotFound)
}

func TestDiscountedCents(t *testing.T) {
	tests := []struct {
		name  string
		cents int
		pct   int
		want  int
	}{
		{"no discount", 4000, 0, 4000},
		{"flat 10", 4000, 10, 3600},
		{"rounds up", 3333, 10, 3000},   // 2999.7 -> 3000
		{"rounds up odd", 101, 50, 51},  // 50.5 -> 51
		{"full discount", 4000, 100, 0},
		{"negative treated as zero", 4000, -5, 4000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountedCents(tt.cents, tt.pct))
		})
	}
}
