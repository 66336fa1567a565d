package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/dropshiphq/storefront/lib/myhttpclient"
	"github.com/dropshiphq/storefront/lib/mypublisher"
	"github.com/dropshiphq/storefront/lib/mypubsub"
	"github.com/dropshiphq/storefront/lib/myqueue"
	"github.com/dropshiphq/storefront/lib/mystore"
	"github.com/dropshiphq/storefront/lib/mytime"
	"github.com/dropshiphq/storefront/lib/myuuid"
	"github.com/dropshiphq/storefront/lib/myvault"
	"github.com/dropshiphq/storefront/services/backendapi"
	"github.com/dropshiphq/storefront/services/cart"
	"github.com/dropshiphq/storefront/services/checkout"
	"github.com/dropshiphq/storefront/services/checkout/checkoutevents"
)

func main() {
	c := context.Background()

	backendURL := os.Getenv("BACKEND_API_URL")
	if backendURL == "" {
		backendURL = "http://localhost:8000/api"
	}

	router := mux.NewRouter()
	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	vault, vaultCleanup, err := myvault.New(c)
	if err != nil {
		log.Fatalf("Error creating vault: %s", err)
	}
	defer vaultCleanup()

	queuer, queuerCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating task queuer: %s", err)
	}
	defer queuerCleanup()

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queuer, nower)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	if err := publisher.CreateTopic(c, checkoutevents.TopicName); err != nil {
		log.Fatalf("Error creating topic %s: %s", checkoutevents.TopicName, err)
	}

	refresher := backendapi.NewTokenRefresher(myhttpclient.New(), backendURL)
	backend := backendapi.New(myhttpclient.NewAuthenticating(vault, refresher), backendURL)

	cartCache, cartCacheCleanup, err := mystore.New[backendapi.CartSnapshot](c)
	if err != nil {
		log.Fatalf("Error creating cart cache: %s", err)
	}
	defer cartCacheCleanup()

	cartService := cart.NewWebService(backend, cartCache, queuer, uuider)
	cartService.RegisterEndpoints(c, router)

	sessionStore, sessionStoreCleanup, err := mystore.New[checkout.Session](c)
	if err != nil {
		log.Fatalf("Error creating checkout session store: %s", err)
	}
	defer sessionStoreCleanup()

	checkoutService := checkout.NewWebService(backend, sessionStore, vault, cartService.Service(), publisher, nower, uuider)
	checkoutService.RegisterEndpoints(c, router)

	startWebServerBlocking(router)
}

func startWebServerBlocking(router *mux.Router) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting webserver on port %s (try http://localhost:%s/checkout)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
