package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// RemoteTimeout borne chaque appel vers la base cloud (spécifiable via
// REMOTE_TIMEOUT, ex: "3s"). 5s par défaut.
func RemoteTimeout() time.Duration {
	if v := os.Getenv("REMOTE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("⚠️ REMOTE_TIMEOUT invalide (%q), on garde 5s", v)
	}
	return 5 * time.Second
}
