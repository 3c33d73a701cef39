package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"carrito/billing"
	"carrito/convo"
	"carrito/dashboard"
	"carrito/db"
	"carrito/gate"
	"carrito/middleware"
	"carrito/notify"
	"carrito/session"
	"carrito/settings"
	"carrito/store"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

const queryTimeout = 10 * time.Second

// Gateway serves the dashboard's live connection. Each websocket owns its
// views' subscriptions: a cart feed for the stats, a config feed for the
// gate, and the conversation browser. Every subscription is released when
// the connection goes away, on every exit path.
type Gateway struct {
	Auth      *middleware.Authenticator
	Store     *store.Store
	Dashboard *dashboard.Service
	Convos    *convo.Service
	Config    *settings.Service
	Markers   billing.MarkerStore
	Notifier  *notify.Center
	Hub       *Hub
}

// inbound is what connected dashboards send us.
type inbound struct {
	Action       string `json:"action"`                 // "select", "deselect", "dismiss"
	Conversacion string `json:"conversacion,omitempty"` // for select
	Link         string `json:"link,omitempty"`         // deep-link alternative to Conversacion
	ID           string `json:"id,omitempty"`           // for dismiss
}

// WebSocketHandler authenticates the token from the query string (browsers
// cannot set headers on websocket dials), upgrades, and runs the connection.
func (g *Gateway) WebSocketHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		claims, err := g.Auth.ValidateJWT("Bearer " + r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}

		g.serve(conn, claims)
	}
}

func (g *Gateway) serve(conn *websocket.Conn, claims *middleware.Claims) {
	tienda := claims.UserID

	out := make(chan []byte, 256)
	done := make(chan struct{})
	var closeOnce sync.Once
	shutdown := func() { closeOnce.Do(func() { close(done) }) }

	send := func(v any) {
		data, err := json.Marshal(v)
		if err != nil {
			log.Println("realtime marshal error:", err)
			return
		}
		select {
		case out <- data:
		case <-done:
		}
	}

	// The resolver settles before either surface is pushed; the client sees
	// its auth state first, everything else after.
	resolver := session.NewResolver()
	resolver.Apply(&session.Identity{UserID: claims.UserID, Email: claims.Email})
	state, ident := resolver.Current()
	send(map[string]any{
		"action": "session",
		"state":  state.String(),
		"userid": ident.UserID,
		"email":  ident.Email,
	})

	// Hub membership carries transient notifications for this merchant.
	client := &Client{
		Send:   make(chan []byte, 64),
		Topic:  notify.Topic(tienda),
		UserID: tienda,
	}
	g.Hub.Register(client)
	go func() {
		for msg := range client.Send {
			select {
			case out <- msg:
			case <-done:
			}
		}
		shutdown()
	}()

	// Live views. Each owns one subscription; all are closed on teardown.
	statsSub := g.Store.Subscribe(db.CollCarritos)
	go g.statsView(statsSub, tienda, send)

	markerCtx, cancelMarker := context.WithTimeout(context.Background(), queryTimeout)
	marker, err := g.Markers.TakeOnce(markerCtx, tienda)
	cancelMarker()
	if err != nil {
		log.Printf("realtime marker read failed for %s: %v", tienda, err)
		marker = false
	}
	configSub := g.Store.Subscribe(db.CollClientes)
	go g.configView(configSub, gate.New(marker), tienda, send)

	browser := convo.NewBrowser(func(coll string) convo.Subscription {
		return g.Store.Subscribe(coll)
	}, db.CollConversaciones)
	go g.summaryView(browser.Summaries(), tienda, send)

	// Single writer for the socket.
	go func() {
		defer conn.Close()
		for {
			select {
			case msg := <-out:
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					shutdown()
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Read loop; returning tears the connection down.
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var in inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Println("realtime invalid payload:", err)
			continue
		}

		switch in.Action {
		case "select":
			id := in.Conversacion
			if in.Link != "" {
				decoded, err := convo.DecodeLink(in.Link)
				if err != nil {
					send(map[string]any{"action": "error", "error": "invalid conversation link"})
					continue
				}
				id = decoded
			}
			if sub := browser.Select(id, db.CollMensajes); sub != nil {
				go g.transcriptView(sub, tienda, id, send)
			}
		case "deselect":
			browser.Select("", db.CollMensajes)
		case "dismiss":
			if g.Notifier != nil && in.ID != "" {
				g.Notifier.Dismiss(tienda, in.ID)
			}
		}
	}

	shutdown()
	statsSub.Close()
	configSub.Close()
	browser.Close()
	g.Hub.Unregister(client)
	conn.Close()
}

// statsView re-derives the dashboard snapshot on every cart change. A failed
// reload keeps the last-known aggregate on screen: stale beats blank.
func (g *Gateway) statsView(sub *store.Subscription, tienda string, send func(any)) {
	for range sub.Updates() {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		snap, err := g.Dashboard.Load(ctx, tienda)
		cancel()
		if err != nil {
			log.Printf("realtime stats reload failed for %s: %v", tienda, err)
			continue
		}
		send(map[string]any{
			"action":    "stats",
			"stats":     snap.Stats,
			"recientes": snap.Recientes,
		})
	}
}

// configView mirrors the config document and re-runs the gate on every
// snapshot, so a webhook plan update moves the merchant to the main app
// without a reload.
func (g *Gateway) configView(sub *store.Subscription, gt *gate.Gate, tienda string, send func(any)) {
	for range sub.Updates() {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		cfg, _, err := g.Config.Load(ctx, tienda)
		cancel()
		if err != nil {
			log.Printf("realtime config reload failed for %s: %v", tienda, err)
			continue
		}
		send(map[string]any{
			"action": "config",
			"config": cfg,
			"gate":   gt.Apply(cfg).String(),
		})
	}
}

func (g *Gateway) summaryView(sub convo.Subscription, tienda string, send func(any)) {
	for range sub.Updates() {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		list, err := g.Convos.ListSummaries(ctx, tienda)
		cancel()
		if err != nil {
			log.Printf("realtime convo reload failed for %s: %v", tienda, err)
			continue
		}
		send(map[string]any{"action": "convos", "conversaciones": list})
	}
}

func (g *Gateway) transcriptView(sub convo.Subscription, tienda, conversacionID string, send func(any)) {
	for range sub.Updates() {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		_, mensajes, err := g.Convos.LoadTranscript(ctx, tienda, conversacionID)
		cancel()
		if err != nil {
			log.Printf("realtime transcript reload failed for %s: %v", conversacionID, err)
			continue
		}
		send(map[string]any{
			"action":       "mensajes",
			"conversacion": conversacionID,
			"mensajes":     mensajes,
		})
	}
}
