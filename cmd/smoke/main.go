// Command smoke runs the order-to-settlement flow against a live database.
// It writes real rows; point it at a scratch database.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mdmahmu/toolstun-server/internal/config"
	"github.com/mdmahmu/toolstun-server/internal/database"
	"github.com/mdmahmu/toolstun-server/internal/models"
	"github.com/mdmahmu/toolstun-server/internal/repository"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatal("failed to connect database: ", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatal("schema bootstrap failed: ", err)
	}

	var now time.Time
	if err := pool.QueryRow(ctx, "SELECT NOW()").Scan(&now); err != nil {
		log.Fatal("query failed: ", err)
	}
	fmt.Println("Current database time:", now)

	testSettlementFlow(ctx, pool)
	testUserUpsert(ctx, pool)
}

func testSettlementFlow(ctx context.Context, pool *pgxpool.Pool) {
	fmt.Println("\n=== Testing settlement flow ===")

	products := repository.NewProductRepository(pool)
	orders := repository.NewOrderRepository(pool)
	settlements := repository.NewSettlementRepository(pool)

	product := &models.Product{Name: "Smoke test wrench", Price: 12.5, Quantity: 10, Sold: 2}
	if err := products.Create(ctx, product); err != nil {
		log.Fatal("❌ create product failed: ", err)
	}
	fmt.Printf("✅ Created product %s\n", product.ID)

	order := &models.Order{
		EmailOrUID:  "smoke@example.com",
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    3,
		Price:       37.5,
	}
	if err := orders.Create(ctx, order); err != nil {
		log.Fatal("❌ place order failed: ", err)
	}
	fmt.Printf("✅ Placed order %s\n", order.ID)

	if err := orders.Create(ctx, &models.Order{EmailOrUID: "smoke@example.com", ProductID: uuid.New()}); !errors.Is(err, repository.ErrNotFound) {
		log.Fatal("❌ order for unknown product should be rejected, got: ", err)
	}
	fmt.Println("✅ Order for unknown product rejected")

	txID := "pi_smoke_" + uuid.NewString()[:8]
	if _, err := settlements.Settle(ctx, models.Settlement{
		ProductID:     product.ID,
		OrderID:       order.ID,
		Bought:        3,
		TransactionID: txID,
	}); err != nil {
		log.Fatal("❌ settle failed: ", err)
	}

	settled, err := products.GetByID(ctx, product.ID)
	if err != nil {
		log.Fatal("❌ get product failed: ", err)
	}
	if settled.Quantity != 7 || settled.Sold != 5 {
		log.Fatalf("❌ expected quantity 7 and sold 5, got %d and %d", settled.Quantity, settled.Sold)
	}
	fmt.Println("✅ Stock moved from quantity to sold")

	paid, err := orders.GetByID(ctx, order.ID)
	if err != nil {
		log.Fatal("❌ get order failed: ", err)
	}
	if !paid.Paid || paid.TransactionID != txID {
		log.Fatal("❌ order was not stamped with the transaction id")
	}
	fmt.Println("✅ Order marked paid")

	_, err = settlements.Settle(ctx, models.Settlement{
		ProductID:     product.ID,
		OrderID:       uuid.New(),
		Bought:        1,
		TransactionID: "pi_missing_order",
	})
	if !errors.Is(err, repository.ErrOrderNotFound) {
		log.Fatal("❌ settle with unknown order should fail, got: ", err)
	}
	unchanged, _ := products.GetByID(ctx, product.ID)
	if unchanged.Quantity != 7 {
		log.Fatal("❌ failed settlement changed stock")
	}
	fmt.Println("✅ Failed settlement rolled back")

	res, err := orders.Delete(ctx, order.ID)
	if err != nil || res.DeletedCount != 1 {
		log.Fatal("❌ delete order failed: ", err)
	}
	if _, err := orders.GetByID(ctx, order.ID); !errors.Is(err, repository.ErrNotFound) {
		log.Fatal("❌ deleted order is still readable")
	}
	fmt.Println("✅ Order deleted")
}

func testUserUpsert(ctx context.Context, pool *pgxpool.Pool) {
	fmt.Println("\n=== Testing user upsert ===")

	users := repository.NewUserRepository(pool)
	email := "smoke-" + uuid.NewString()[:8] + "@example.com"

	for i := 0; i < 2; i++ {
		if _, err := users.Upsert(ctx, &models.User{EmailOrUID: email, Name: "Smoke"}); err != nil {
			log.Fatal("❌ upsert failed: ", err)
		}
	}

	all, err := users.GetAll(ctx)
	if err != nil {
		log.Fatal("❌ list users failed: ", err)
	}
	count := 0
	for _, u := range all {
		if u.EmailOrUID == email {
			count++
		}
	}
	if count != 1 {
		log.Fatalf("❌ expected one user for %s, found %d", email, count)
	}
	fmt.Println("✅ Repeated upsert kept a single user")

	if _, err := users.SetRole(ctx, email, models.RoleAdmin); err != nil {
		log.Fatal("❌ set role failed: ", err)
	}
	u, err := users.GetByEmailOrUID(ctx, email)
	if err != nil || !u.IsAdmin() {
		log.Fatal("❌ role update not visible: ", err)
	}
	fmt.Println("✅ Role updated")

	fmt.Println("\n🎉 SMOKE RUN PASSED!")
}
