package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/manuelbmaa/management-system/handlers"
	"github.com/manuelbmaa/management-system/logging"
	"github.com/manuelbmaa/management-system/middleware"
	"github.com/manuelbmaa/management-system/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// createUniqueIndex backs the duplicate pre-checks with a write-time guarantee.
func createUniqueIndex(ctx context.Context, collection *mongo.Collection, field string) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{field: 1},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create unique index on %s.%s: %v", collection.Name(), field, err)
	}
	return nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting management-system backend...")

	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	serverPort := os.Getenv("SERVER_PORT")
	if mongoURI == "" || mongoDBName == "" || serverPort == "" {
		logging.Logger.Fatal("Event ID: CONFIG_ERROR, Description: MONGO_URI, MONGO_DB_NAME and SERVER_PORT must be set")
	}
	if os.Getenv("JWT_SECRET") == "" {
		logging.Logger.Fatal("Event ID: CONFIG_ERROR, Description: JWT_SECRET must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	userCollection := db.Collection("users")
	permissionCollection := db.Collection("permissions")
	roleCollection := db.Collection("roles")
	projectCollection := db.Collection("projects")

	for _, idx := range []struct {
		collection *mongo.Collection
		field      string
	}{
		{userCollection, "email"},
		{permissionCollection, "name"},
		{roleCollection, "name"},
	} {
		if err := createUniqueIndex(ctx, idx.collection, idx.field); err != nil {
			logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
		}
	}

	mailBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp-relay-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	userService := services.NewUserService(userCollection, mailBreaker)
	permissionService := services.NewPermissionService(permissionCollection)
	roleService := services.NewRoleService(roleCollection, permissionCollection)
	projectService := services.NewProjectService(projectCollection, userCollection)

	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	permissionHandler := handlers.NewPermissionHandler(permissionService)
	roleHandler := handlers.NewRoleHandler(roleService)
	projectHandler := handlers.NewProjectHandler(projectService)

	r := mux.NewRouter()

	r.HandleFunc("/api/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/forgot-password", authHandler.ForgotPassword).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTAuthMiddleware)

	api.HandleFunc("/users", userHandler.CreateUser).Methods(http.MethodPost)
	api.HandleFunc("/users", userHandler.GetUsers).Methods(http.MethodGet)
	api.HandleFunc("/users", userHandler.UpdateUser).Methods(http.MethodPut)
	api.HandleFunc("/users", userHandler.DeleteUser).Methods(http.MethodDelete)

	api.HandleFunc("/permissions", permissionHandler.CreatePermission).Methods(http.MethodPost)
	api.HandleFunc("/permissions", permissionHandler.GetAllPermissions).Methods(http.MethodGet)
	api.HandleFunc("/permissions/{id}", permissionHandler.GetPermissionByID).Methods(http.MethodGet)
	api.HandleFunc("/permissions/{id}", permissionHandler.UpdatePermission).Methods(http.MethodPut)
	api.HandleFunc("/permissions/{id}", permissionHandler.DeletePermission).Methods(http.MethodDelete)

	api.HandleFunc("/roles", roleHandler.CreateRole).Methods(http.MethodPost)
	api.HandleFunc("/roles", roleHandler.GetAllRoles).Methods(http.MethodGet)
	api.HandleFunc("/roles/{id}", roleHandler.GetRoleByID).Methods(http.MethodGet)
	api.HandleFunc("/roles/{id}", roleHandler.UpdateRole).Methods(http.MethodPut)
	api.HandleFunc("/roles/{id}", roleHandler.DeleteRole).Methods(http.MethodDelete)

	api.HandleFunc("/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	api.HandleFunc("/projects", projectHandler.GetProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", projectHandler.UpdateProject).Methods(http.MethodPut)
	api.HandleFunc("/projects", projectHandler.DeleteProject).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{id}", projectHandler.PatchProject).Methods(http.MethodPatch)
	api.HandleFunc("/projects/{id}/tasks", projectHandler.AddTask).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}/tasks/{taskId}", projectHandler.UpdateTask).Methods(http.MethodPut)
	api.HandleFunc("/projects/{id}/tasks/{taskId}", projectHandler.DeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{id}/comments", projectHandler.AddComment).Methods(http.MethodPost)

	corsRouter := enableCORS(r)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", serverPort),
		Handler:      corsRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost:%s", serverPort)
	if err := srv.ListenAndServe(); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
