package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const database = "carritodb"

// Collection names. The document shapes match what the recovery backend and
// the billing webhook already write.
const (
	CollClientes       = "clientes"
	CollCarritos       = "carritosAbandonados"
	CollConversaciones = "conversaciones"
	CollMensajes       = "mensajes"
	CollUsuarios       = "usuarios"
)

// DB carries the MongoDB handles. Built once in main and passed by reference;
// nothing in this package is a global.
type DB struct {
	Client         *mongo.Client
	Clientes       *mongo.Collection
	Carritos       *mongo.Collection
	Conversaciones *mongo.Collection
	Mensajes       *mongo.Collection
	Usuarios       *mongo.Collection
}

// Connect dials MongoDB and verifies the connection before handing out
// collection handles.
func Connect(ctx context.Context, uri string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, err
	}

	d := client.Database(database)
	return &DB{
		Client:         client,
		Clientes:       d.Collection(CollClientes),
		Carritos:       d.Collection(CollCarritos),
		Conversaciones: d.Collection(CollConversaciones),
		Mensajes:       d.Collection(CollMensajes),
		Usuarios:       d.Collection(CollUsuarios),
	}, nil
}

// Close disconnects the underlying client.
func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}

// Collection resolves a handle by name. The subscription layer is keyed on
// collection names rather than struct fields.
func (db *DB) Collection(name string) *mongo.Collection {
	switch name {
	case CollClientes:
		return db.Clientes
	case CollCarritos:
		return db.Carritos
	case CollConversaciones:
		return db.Conversaciones
	case CollMensajes:
		return db.Mensajes
	case CollUsuarios:
		return db.Usuarios
	}
	return db.Client.Database(database).Collection(name)
}
