package dashboard

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"carrito/db"
	"carrito/models"
	"carrito/utils"
)

// Service serves the merchant's recovery dashboard.
type Service struct {
	DB *db.DB
}

func NewService(database *db.DB) *Service {
	return &Service{DB: database}
}

// Snapshot is one full derivation of the dashboard: aggregates over every
// cart belonging to the merchant, plus the capped recent-activity listing.
type Snapshot struct {
	Stats     Stats            `json:"stats"`
	Recientes []models.Carrito `json:"recientes"`
}

// Load queries the merchant's carts newest-first and re-derives the
// aggregates from the full set.
func (s *Service) Load(ctx context.Context, tiendaID string) (Snapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := s.DB.Carritos.Find(ctx, bson.M{"tiendaId": tiendaID}, opts)
	if err != nil {
		return Snapshot{}, err
	}
	defer cursor.Close(ctx)

	var carritos []models.Carrito
	if err := cursor.All(ctx, &carritos); err != nil {
		return Snapshot{}, err
	}

	SortByRecency(carritos)
	recientes := Recent(carritos, DisplayCap)
	if recientes == nil {
		recientes = []models.Carrito{}
	}
	return Snapshot{
		Stats:     Compute(carritos),
		Recientes: recientes,
	}, nil
}

// GetStats returns the aggregates only.
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tiendaID := utils.GetUserIDFromRequest(r)
	if tiendaID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	snap, err := s.Load(ctx, tiendaID)
	if err != nil {
		log.Println("dashboard stats error:", err)
		http.Error(w, "Could not load stats", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, snap.Stats)
}

// GetCarts returns the full dashboard snapshot (aggregates + recent table).
func (s *Service) GetCarts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tiendaID := utils.GetUserIDFromRequest(r)
	if tiendaID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	snap, err := s.Load(ctx, tiendaID)
	if err != nil {
		log.Println("dashboard carts error:", err)
		http.Error(w, "Could not load carts", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, snap)
}
