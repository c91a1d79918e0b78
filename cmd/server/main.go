package main

import (
	"log"
	"net/http"
	"os"

	"fleetdesk-backend/internal/database"
	"fleetdesk-backend/internal/handlers"
	"fleetdesk-backend/internal/middleware"
	"fleetdesk-backend/internal/routing"
	"fleetdesk-backend/internal/services"
	"fleetdesk-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("🚀 FLEETDESK BACKEND STARTING")

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables from system")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}
	if err := database.SeedUsers(db); err != nil {
		log.Fatal(err)
	}
	if err := database.SeedFleet(db); err != nil {
		log.Fatal(err)
	}

	// Firebase Cloud Messaging is optional; the scheduler runs without it
	var fcmService *services.FCMService
	if credsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); credsBase64 != "" {
		fcmService, err = services.NewFCMServiceFromBase64(credsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized")
		}
	} else if credsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE"); credsFile != "" {
		fcmService, err = services.NewFCMService(credsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized")
		}
	} else {
		log.Println("⚠️  No Firebase credentials configured (push notifications disabled)")
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	// One geocode cache for the process; the distance provider re-reads
	// the MAPS_API_KEY credential on every call
	matrixProvider := routing.NewProvider(routing.NewMemoryGeoCache())

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Post("/api/auth/login", handlers.Login(db))

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub))

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			// Fleet
			r.Get("/drivers", handlers.GetDrivers(db))
			r.Post("/drivers", handlers.CreateDriver(db))
			r.Get("/drivers/{id}", handlers.GetDriver(db))
			r.Post("/driver/fcm-token", handlers.RegisterFCMToken(db))

			// Trips
			r.Get("/trips", handlers.GetTrips(db))
			r.Post("/trips", handlers.CreateTrip(db))
			r.Get("/trips/{id}", handlers.GetTrip(db))
			r.Patch("/trips/{id}/assign-driver", handlers.AssignDriver(db, wsHub, fcmService))

			// Leave
			r.Post("/leave", handlers.CreateLeave(db))

			// Scheduling engine
			r.Get("/timetables/available-drivers", handlers.AvailableDrivers(db))
			r.Get("/timetables/conflicts", handlers.DetectConflicts(db))
			r.Post("/timetables/auto-assign", handlers.AutoAssign(db))
			r.Get("/workload", handlers.GetWorkload(db))

			// Route sequencing
			r.Post("/routes/optimize", handlers.OptimizeRoute(db, matrixProvider))
			r.Get("/routes/optimization-scores", handlers.OptimizationScores(db, matrixProvider))

			// Committing assignments writes trips; admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin"))
				r.Post("/timetables/auto-assign/commit", handlers.CommitAssignments(db, wsHub, fcmService))
			})
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("⚠️  PORT not set, using default: %s", port)
	}

	log.Printf("🚀 Server starting on http://localhost:%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
