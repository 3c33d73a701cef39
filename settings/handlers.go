package settings

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"carrito/db"
	"carrito/models"
	"carrito/mq"
	"carrito/notify"
	"carrito/utils"
)

// Service is the merchant configuration editor.
type Service struct {
	DB       *db.DB
	Emitter  *mq.Emitter
	Notifier *notify.Center
}

func NewService(database *db.DB, emitter *mq.Emitter, notifier *notify.Center) *Service {
	return &Service{DB: database, Emitter: emitter, Notifier: notifier}
}

// Load fetches the merchant's config. An absent document is a valid empty
// default, distinct from an error.
func (s *Service) Load(ctx context.Context, tiendaID string) (*models.Cliente, bool, error) {
	var cfg models.Cliente
	err := s.DB.Clientes.FindOne(ctx, bson.M{"_id": tiendaID}).Decode(&cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.Cliente{TiendaID: tiendaID, Plan: models.PlanNone}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	cfg.TiendaID = tiendaID
	return &cfg, true, nil
}

// GetConfig returns the config document, or the empty default if none exists.
func (s *Service) GetConfig(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tiendaID := utils.GetUserIDFromRequest(r)
	if tiendaID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cfg, _, err := s.Load(ctx, tiendaID)
	if err != nil {
		log.Println("settings load error:", err)
		http.Error(w, "Could not load configuration", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, cfg)
}

// SaveConfig persists the working copy with merge semantics, provisioning the
// API key on first save. On success the response carries exactly what was
// written; on failure the client keeps its working copy.
func (s *Service) SaveConfig(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tiendaID := utils.GetUserIDFromRequest(r)
	if tiendaID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var working models.Cliente
	if err := json.NewDecoder(r.Body).Decode(&working); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	working.TiendaID = tiendaID

	existing, _, err := s.Load(ctx, tiendaID)
	if err != nil {
		log.Println("settings pre-save load error:", err)
		s.notifyError(tiendaID)
		http.Error(w, "Could not save configuration", http.StatusInternalServerError)
		return
	}

	saved, update := BuildSave(existing, working, time.Now().UTC())

	opts := options.Update().SetUpsert(true)
	if _, err := s.DB.Clientes.UpdateOne(ctx, bson.M{"_id": tiendaID}, bson.M{"$set": update}, opts); err != nil {
		log.Println("settings save error:", err)
		s.notifyError(tiendaID)
		http.Error(w, "Could not save configuration", http.StatusInternalServerError)
		return
	}

	s.Emitter.Notify(ctx, db.CollClientes)
	if s.Notifier != nil {
		s.Notifier.Push(tiendaID, notify.KindSuccess, "¡Configuración guardada!")
	}

	utils.SendResponse(w, http.StatusOK, saved, "Configuración guardada", nil)
}

func (s *Service) notifyError(tiendaID string) {
	if s.Notifier != nil {
		s.Notifier.Push(tiendaID, notify.KindError, "Error al guardar la configuración.")
	}
}

// GetAPIKeyQR renders the webhook credential as a QR code, so the key can be
// scanned straight into the store backend's webhook settings. The contract on
// the other side is the X-API-Key header.
func (s *Service) GetAPIKeyQR(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tiendaID := utils.GetUserIDFromRequest(r)
	if tiendaID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cfg, _, err := s.Load(ctx, tiendaID)
	if err != nil {
		log.Println("settings qr load error:", err)
		http.Error(w, "Could not load configuration", http.StatusInternalServerError)
		return
	}
	if cfg.APIKey == "" {
		http.Error(w, "No API key yet; save the configuration first", http.StatusNotFound)
		return
	}

	png, err := qrcode.Encode(cfg.APIKey, qrcode.Medium, 256)
	if err != nil {
		log.Println("settings qr encode error:", err)
		http.Error(w, "Could not render QR", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
