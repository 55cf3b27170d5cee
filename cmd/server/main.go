package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"

	"greenbag_back_end/internal/cache"
	"greenbag_back_end/internal/checkout"
	"greenbag_back_end/internal/config"
	"greenbag_back_end/internal/database"
	adminhandlers "greenbag_back_end/internal/handlers/admin"
	paymenthandlers "greenbag_back_end/internal/handlers/payment"
	producthandlers "greenbag_back_end/internal/handlers/product"
	storehandlers "greenbag_back_end/internal/handlers/store"
	userhandlers "greenbag_back_end/internal/handlers/user"
	"greenbag_back_end/internal/localstore"
	"greenbag_back_end/internal/orders"
	"greenbag_back_end/internal/ratings"
	"greenbag_back_end/internal/routes"
	"greenbag_back_end/internal/services"
	"greenbag_back_end/internal/syncstore"
	"greenbag_back_end/internal/utils"
)

func main() {
	config.Load()

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Fatal("❌ Impossible d'initialiser Stripe : clé manquante")
	}
	log.Println("✅ Stripe initialisé")

	database.ConnectDatabases()
	defer database.CloseScylla()

	local, err := localstore.Open("")
	if err != nil {
		log.Fatalf("❌ Échec ouverture base locale: %v", err)
	}
	defer local.Close()

	warmupRedisCache()

	wireHandlers(local)

	r := gin.Default()
	r.Use(cors.Default())
	routes.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur greenBag lancé sur le port", port)
	r.Run(":" + port)
}

// wireHandlers construit les services et les injecte dans les packages de
// handlers.
func wireHandlers(local *localstore.Store) {
	users := database.UserStore{}
	products := database.ProductStore{}
	carts := database.CartStore{}
	orderStore := database.OrderStore{}
	reviews := database.ReviewStore{}
	cards := database.CardStore{}
	journal := database.JournalStore{}

	sync := syncstore.New(local, local, users, products, journal, config.RemoteTimeout())

	orderService := &orders.Service{
		Orders:   orderStore,
		Products: products,
		Redis:    database.Redis,
	}
	ratingService := &ratings.Service{
		Reviews:  reviews,
		Products: products,
		Redis:    database.Redis,
	}
	checkoutService := &checkout.Service{
		Catalog:  products,
		Cart:     carts,
		Orders:   orderStore,
		Cards:    cards,
		Payments: services.StripePayments{},
		Notifier: utils.Mailer{},
		Journal:  journal,
		Cache:    cache.ProductInvalidator{},
	}

	userhandlers.Sync = sync
	userhandlers.Local = local
	userhandlers.Users = users
	userhandlers.Carts = carts
	userhandlers.Orders = orderService
	userhandlers.Cards = cards

	producthandlers.Ratings = ratingService
	producthandlers.Products = products
	producthandlers.Reviews = reviews

	storehandlers.Sync = sync
	storehandlers.Products = products
	storehandlers.Orders = orderService

	adminhandlers.Sync = sync
	adminhandlers.Users = users
	adminhandlers.Orders = orderService
	adminhandlers.Journal = journal

	paymenthandlers.Checkout = checkoutService
}

// warmupRedisCache pré-chauffe la connexion Redis pour éviter la latence du
// premier appel
func warmupRedisCache() {
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Cache Redis pré-chauffé")
	}
}
