package convo

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"carrito/db"
	"carrito/models"
	"carrito/utils"
)

// Service serves the conversation browser.
type Service struct {
	DB *db.DB
}

func NewService(database *db.DB) *Service {
	return &Service{DB: database}
}

// ListSummaries queries the merchant's threads, most recent first, capped.
func (s *Service) ListSummaries(ctx context.Context, tiendaID string) ([]models.Conversacion, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "lastUpdated", Value: -1}}).
		SetLimit(SummaryCap)
	cursor, err := s.DB.Conversaciones.Find(ctx, bson.M{"tiendaId": tiendaID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var list []models.Conversacion
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}

	SortSummaries(list)
	return CapSummaries(list, SummaryCap), nil
}

// LoadTranscript returns the full ordered transcript of one conversation,
// after verifying the thread belongs to the merchant.
func (s *Service) LoadTranscript(ctx context.Context, tiendaID, conversacionID string) (*models.Conversacion, []models.Mensaje, error) {
	objID, err := primitive.ObjectIDFromHex(conversacionID)
	if err != nil {
		return nil, nil, err
	}

	var conv models.Conversacion
	err = s.DB.Conversaciones.FindOne(ctx, bson.M{
		"_id":      objID,
		"tiendaId": tiendaID,
	}).Decode(&conv)
	if err != nil {
		return nil, nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := s.DB.Mensajes.Find(ctx, bson.M{"conversacionId": conversacionID}, opts)
	if err != nil {
		return nil, nil, err
	}
	defer cursor.Close(ctx)

	var mensajes []models.Mensaje
	if err := cursor.All(ctx, &mensajes); err != nil {
		return nil, nil, err
	}

	SortMessages(mensajes)
	return &conv, mensajes, nil
}

// List returns the capped summary listing.
func (s *Service) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tiendaID := utils.GetUserIDFromRequest(r)
	if tiendaID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	list, err := s.ListSummaries(ctx, tiendaID)
	if err != nil {
		log.Println("convo list error:", err)
		http.Error(w, "Could not load conversations", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Conversacion{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetMessages returns one conversation's full transcript, oldest first.
func (s *Service) GetMessages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tiendaID := utils.GetUserIDFromRequest(r)
	if tiendaID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conv, mensajes, err := s.LoadTranscript(ctx, tiendaID, ps.ByName("conversacionid"))
	if err != nil {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}
	if mensajes == nil {
		mensajes = []models.Mensaje{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"conversacion": conv,
		"mensajes":     mensajes,
	})
}

// OpenLink resolves a deep-link token straight into the detail view, without
// going through the summary list.
func (s *Service) OpenLink(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tiendaID := utils.GetUserIDFromRequest(r)
	if tiendaID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversacionID, err := DecodeLink(ps.ByName("token"))
	if err != nil {
		http.Error(w, "Invalid conversation link", http.StatusBadRequest)
		return
	}

	conv, mensajes, err := s.LoadTranscript(ctx, tiendaID, conversacionID)
	if err != nil {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}
	if mensajes == nil {
		mensajes = []models.Mensaje{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"conversacion": conv,
		"mensajes":     mensajes,
	})
}
