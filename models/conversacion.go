package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message author roles.
const (
	RoleCliente   = "cliente"
	RoleAsistente = "asistente"
)

// Conversacion is one customer thread summary.
type Conversacion struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TiendaID    string             `json:"tiendaId" bson:"tiendaId"`
	Cliente     string             `json:"cliente,omitempty" bson:"cliente,omitempty"`
	LastUpdated time.Time          `json:"lastUpdated,omitempty" bson:"lastUpdated,omitempty"`
}

// Mensaje is one entry in a conversation transcript.
type Mensaje struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConversacionID string             `json:"conversacionId" bson:"conversacionId"`
	Role           string             `json:"role" bson:"role"`
	Texto          string             `json:"texto" bson:"texto"`
	Timestamp      time.Time          `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
}
