package repositories_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishwell/wishwell-go/pkg/api"
	"github.com/wishwell/wishwell-go/pkg/models"
	"github.com/wishwell/wishwell-go/pkg/repositories"
)

func TestReservationCreate(t *testing.T) {
	ctx := context.Background()
	itemID := uuid.New()

	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/reservations", r.URL.Path)

		var input repositories.CreateReservationInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, itemID, input.ItemID)
		assert.Equal(t, 2, input.Quantity)

		writeJSON(t, w, http.StatusCreated, models.Reservation{
			ID:       uuid.New(),
			ItemID:   input.ItemID,
			Quantity: input.Quantity,
			Status:   models.ReservationStatusPending,
		})
	})
	reservations := repositories.NewReservationRepository(h.base)

	got, err := reservations.Create(ctx, repositories.CreateReservationInput{
		ItemID:   itemID,
		Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusPending, got.Status)
}

func TestReservationCreateConflictSurfacedVerbatim(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusConflict, map[string]string{"message": "item already reserved"})
	})
	reservations := repositories.NewReservationRepository(h.base)

	_, err := reservations.Create(context.Background(), repositories.CreateReservationInput{
		ItemID:   uuid.New(),
		Quantity: 1,
	})
	require.Error(t, err)
	assert.True(t, api.IsConflict(err))
	assert.EqualError(t, err, "api error 409: item already reserved")
}

func TestReservationCreateRejectsZeroQuantity(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})
	reservations := repositories.NewReservationRepository(h.base)

	_, err := reservations.Create(context.Background(), repositories.CreateReservationInput{
		ItemID: uuid.New(),
	})
	require.Error(t, err)
	assert.True(t, api.IsValidation(err))
	assert.Equal(t, int32(0), h.hits.Load())
}

func TestReservationCancelInvalidatesMine(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	cancelled := false

	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			require.Equal(t, "/reservations/mine", r.URL.Path)
			if cancelled {
				writeJSON(t, w, http.StatusOK, []models.Reservation{})
				return
			}
			writeJSON(t, w, http.StatusOK, []models.Reservation{{ID: id, Status: models.ReservationStatusPending}})
		case http.MethodDelete:
			require.Equal(t, "/reservations/"+id.String(), r.URL.Path)
			cancelled = true
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unhandled request %s %s", r.Method, r.URL.Path)
		}
	})
	reservations := repositories.NewReservationRepository(h.base)

	mine, err := reservations.Mine(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, reservations.Cancel(ctx, id))

	mine, err = reservations.Mine(ctx)
	require.NoError(t, err)
	assert.Empty(t, mine, "a read after the cancel resolves sees the release")
}

func TestReservationConfirmPurchase(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/reservations/"+id.String()+"/confirm-purchase", r.URL.Path)
		writeJSON(t, w, http.StatusOK, models.Reservation{ID: id, Status: models.ReservationStatusConfirmed})
	})
	reservations := repositories.NewReservationRepository(h.base)

	got, err := reservations.ConfirmPurchase(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusConfirmed, got.Status)
}
