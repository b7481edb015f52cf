package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	seedUsers(ctx, pool)
	seedProducts(ctx, pool)
	seedCoupons(ctx, pool)

	log.Println("seeding completed successfully")
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool) {
	users := []struct {
		Name  string
		Email string
		Role  string
	}{
		{"Admin Lojinha", "admin@lojinha.app", "admin"},
		{"Entregador Carlos", "carlos@lojinha.app", "admin"},
		{"Maria Souza", "maria@example.com", "user"},
		{"João Pereira", "joao@example.com", "user"},
		{"Ana Lima", "ana@example.com", "user"},
		{"Pedro Santos", "pedro@example.com", "user"},
	}

	hash, err := argon2id.CreateHash("senha123", argon2id.DefaultParams)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	log.Println("seeding users...")
	for _, u := range users {
		_, err := pool.Exec(ctx, `
			INSERT INTO users (name, email, password_hash, roles)
			VALUES ($1, $2, $3, ARRAY[$4])
			ON CONFLICT (email) DO NOTHING`,
			u.Name, u.Email, hash, u.Role)
		if err != nil {
			log.Printf("seed user %s: %v", u.Email, err)
		}
	}
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool) {
	nextWeek := time.Now().AddDate(0, 0, 7)
	products := []struct {
		Name       string
		Slug       string
		Desc       string
		Price      int64
		Discount   int32
		PromoUntil *time.Time
	}{
		{"Camiseta Básica", "camiseta-basica", "Camiseta de algodão, várias cores.", 4990, 0, nil},
		{"Caneca Esmaltada", "caneca-esmaltada", "Caneca retrô 300ml.", 3490, 10, &nextWeek},
		{"Mochila Urbana", "mochila-urbana", "Mochila impermeável 20L.", 18990, 20, &nextWeek},
		{"Garrafa Térmica", "garrafa-termica", "Mantém a temperatura por 12h.", 8990, 0, nil},
		{"Boné Trucker", "bone-trucker", "Boné com fecho ajustável.", 5990, 15, nil},
		{"Meia Cano Alto", "meia-cano-alto", "Par de meias de algodão.", 1990, 0, nil},
	}

	log.Println("seeding products...")
	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (name, slug, description, price, discount_percent, promo_until)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (slug) DO UPDATE
			SET price = EXCLUDED.price,
			    discount_percent = EXCLUDED.discount_percent,
			    promo_until = EXCLUDED.promo_until,
			    updated_at = now()`,
			p.Name, p.Slug, p.Desc, p.Price, p.Discount, p.PromoUntil)
		if err != nil {
			log.Printf("seed product %s: %v", p.Slug, err)
		}
	}
}

func seedCoupons(ctx context.Context, pool *pgxpool.Pool) {
	nextMonth := time.Now().AddDate(0, 1, 0)
	coupons := []struct {
		Code       string
		Discount   int32
		ExpiresAt  *time.Time
		UsageLimit int32
	}{
		{"BEMVINDO10", 10, nil, 1000},
		{"PROMO20", 20, &nextMonth, 100},
		{"ULTIMAHORA", 30, &nextMonth, 10},
	}

	log.Println("seeding coupons...")
	for _, c := range coupons {
		_, err := pool.Exec(ctx, `
			INSERT INTO coupons (code, discount_percent, expires_at, usage_limit)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (code) DO NOTHING`,
			c.Code, c.Discount, c.ExpiresAt, c.UsageLimit)
		if err != nil {
			log.Printf("seed coupon %s: %v", c.Code, err)
		}
	}
}
