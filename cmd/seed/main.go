// Command seed wipes the store and loads the sample catalogue, so a fresh
// checkout of the project has something to sell.
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/habbo-store/internal/domain"
	"github.com/jcmexdev/habbo-store/internal/store"
)

var sampleProducts = []domain.Product{
	{
		Name:        "Sofá Habbo Clássico",
		Description: "O sofá mais icônico do Habbo Hotel, perfeito para receber amigos no seu quarto.",
		Price:       50,
		Image:       "https://images.habbo.com/c_images/catalogue/icon_70.png",
		Stock:       15,
		Category:    "Móveis",
		Featured:    true,
	},
	{
		Name:        "Mesa de Centro Premium",
		Description: "Mesa elegante para decorar seu quarto com estilo e sofisticação.",
		Price:       35,
		Image:       "https://images.habbo.com/c_images/catalogue/icon_71.png",
		Stock:       8,
		Category:    "Móveis",
		Featured:    true,
	},
	{
		Name:        "Poltrona Relax",
		Description: "Poltrona confortável para momentos de descanso e relaxamento.",
		Price:       40,
		Image:       "https://images.habbo.com/c_images/catalogue/icon_72.png",
		Stock:       3,
		Category:    "Móveis",
		Featured:    true,
	},
	{
		Name:        "Abajur Vintage",
		Description: "Iluminação perfeita para criar o ambiente ideal no seu quarto.",
		Price:       25,
		Image:       "https://images.habbo.com/c_images/catalogue/icon_73.png",
		Stock:       12,
		Category:    "Decoração",
		Featured:    true,
	},
	{
		Name:        "Estante de Livros",
		Description: "Organize seus livros com estilo nesta estante moderna.",
		Price:       60,
		Image:       "https://images.habbo.com/c_images/catalogue/icon_74.png",
		Stock:       5,
		Category:    "Móveis",
	},
	{
		Name:        "Planta Tropical",
		Description: "Traga vida para seu quarto com esta bela planta tropical.",
		Price:       20,
		Image:       "https://images.habbo.com/c_images/catalogue/icon_75.png",
		Stock:       20,
		Category:    "Decoração",
	},
	{
		Name:        "Quadro Artístico",
		Description: "Obra de arte única para decorar suas paredes.",
		Price:       30,
		Image:       "https://images.habbo.com/c_images/catalogue/icon_76.png",
		Stock:       10,
		Category:    "Decoração",
	},
	{
		Name:        "Cama King Size",
		Description: "Cama luxuosa para um descanso dos sonhos.",
		Price:       80,
		Image:       "https://images.habbo.com/c_images/catalogue/icon_77.png",
		Stock:       4,
		Category:    "Móveis",
	},
	{
		Name:        "Televisão HD",
		Description: "TV de última geração para entretenimento no seu quarto.",
		Price:       120,
		Image:       "https://images.habbo.com/c_images/catalogue/icon_78.png",
		Stock:       6,
		Category:    "Eletrônicos",
	},
	{
		Name:        "Tapete Persa",
		Description: "Tapete elegante que dará um toque especial ao seu quarto.",
		Price:       45,
		Image:       "https://images.habbo.com/c_images/catalogue/icon_79.png",
		Stock:       8,
		Category:    "Decoração",
	},
	{
		Name:        "Mesa de Jantar",
		Description: "Mesa grande perfeita para receber amigos para jantar.",
		Price:       90,
		Image:       "https://images.habbo.com/c_images/catalogue/icon_80.png",
		Stock:       3,
		Category:    "Móveis",
	},
	{
		Name:        "Luminária de Pé",
		Description: "Iluminação moderna e funcional para qualquer ambiente.",
		Price:       35,
		Image:       "https://images.habbo.com/c_images/catalogue/icon_81.png",
		Stock:       15,
		Category:    "Decoração",
	},
}

func main() {
	ctx := context.Background()

	dbPath := getEnv("STORE_DB_PATH", "./data/store.db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		log.Fatalf("could not create data dir: %v", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("could not open store: %v", err)
	}
	defer st.Close()

	if err := st.Reset(ctx); err != nil {
		log.Fatalf("could not reset store: %v", err)
	}

	// Stagger creation times so the newest-first listing is deterministic.
	base := time.Now().UTC().Add(-time.Duration(len(sampleProducts)) * time.Second)
	for i, p := range sampleProducts {
		p.ID = uuid.New().String()
		p.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := st.CreateProduct(ctx, &p); err != nil {
			log.Fatalf("could not seed product %q: %v", p.Name, err)
		}
	}

	log.Printf("seeded %d products into %s", len(sampleProducts), dbPath)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
