package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	ingredientIDs := seedIngredients(db)
	menuItemIDs := seedMenuItems(db)
	seedRecipes(db, menuItemIDs, ingredientIDs)

	log.Println("Seeding completed successfully!")
}

func seedIngredients(db *sql.DB) map[string]int64 {
	ingredients := []struct {
		Name     string
		Unit     string
		Stock    float64
		ParLevel float64
		UnitCost float64
	}{
		{"Pizza Dough", "g", 20000, 5000, 0.004},
		{"Mozzarella", "g", 8000, 2000, 0.012},
		{"Tomato Sauce", "ml", 10000, 3000, 0.003},
		{"Ground Beef", "g", 12000, 4000, 0.015},
		{"Burger Bun", "pcs", 150, 40, 0.5},
		{"Lettuce", "g", 3000, 1000, 0.006},
		{"Cheddar Slice", "pcs", 200, 60, 0.35},
		{"Fries", "g", 15000, 5000, 0.005},
		{"Chicken Breast", "g", 10000, 3000, 0.011},
		{"Cooking Oil", "ml", 8000, 2000, 0.002},
		{"Flour", "g", 25000, 8000, 0.001},
		{"Eggs", "pcs", 120, 48, 0.25},
	}

	fmt.Println("Seeding Ingredients...")
	ids := make(map[string]int64, len(ingredients))
	for _, ing := range ingredients {
		var id int64
		err := db.QueryRow(`
			INSERT INTO ingredients (name, unit, current_stock, par_level, unit_cost)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (name) DO UPDATE SET
				unit = EXCLUDED.unit,
				par_level = EXCLUDED.par_level,
				unit_cost = EXCLUDED.unit_cost
			RETURNING id;
		`, ing.Name, ing.Unit, ing.Stock, ing.ParLevel, ing.UnitCost).Scan(&id)
		if err != nil {
			log.Printf("Failed to seed ingredient %s: %v", ing.Name, err)
			continue
		}
		ids[ing.Name] = id
	}
	return ids
}

func seedMenuItems(db *sql.DB) map[string]int64 {
	items := []struct {
		Name      string
		BasePrice float64
	}{
		{"Margherita Pizza", 12.0},
		{"Classic Cheeseburger", 9.5},
		{"Crispy Chicken Sandwich", 10.0},
		{"Side of Fries", 4.0},
	}

	fmt.Println("Seeding Menu Items...")
	ids := make(map[string]int64, len(items))
	for _, item := range items {
		var id int64
		err := db.QueryRow(`
			INSERT INTO menu_items (name, base_price)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET base_price = EXCLUDED.base_price
			RETURNING id;
		`, item.Name, item.BasePrice).Scan(&id)
		if err != nil {
			log.Printf("Failed to seed menu item %s: %v", item.Name, err)
			continue
		}
		ids[item.Name] = id
	}
	return ids
}

func seedRecipes(db *sql.DB, menuItemIDs, ingredientIDs map[string]int64) {
	recipes := []struct {
		MenuItem   string
		Ingredient string
		Quantity   float64
		Yield      float64
	}{
		{"Margherita Pizza", "Pizza Dough", 250, 1.1},
		{"Margherita Pizza", "Tomato Sauce", 90, 1.0},
		{"Margherita Pizza", "Mozzarella", 120, 1.0},
		{"Classic Cheeseburger", "Ground Beef", 180, 1.2},
		{"Classic Cheeseburger", "Burger Bun", 1, 1.0},
		{"Classic Cheeseburger", "Lettuce", 30, 1.5},
		{"Classic Cheeseburger", "Cheddar Slice", 2, 1.0},
		{"Crispy Chicken Sandwich", "Chicken Breast", 160, 1.25},
		{"Crispy Chicken Sandwich", "Burger Bun", 1, 1.0},
		{"Crispy Chicken Sandwich", "Flour", 40, 1.0},
		{"Crispy Chicken Sandwich", "Eggs", 1, 1.0},
		{"Crispy Chicken Sandwich", "Cooking Oil", 60, 1.0},
		{"Side of Fries", "Fries", 150, 1.0},
		{"Side of Fries", "Cooking Oil", 40, 1.0},
	}

	fmt.Println("Seeding Recipes...")
	for _, rec := range recipes {
		menuID, ok1 := menuItemIDs[rec.MenuItem]
		ingID, ok2 := ingredientIDs[rec.Ingredient]
		if !ok1 {
			log.Printf("Missing menu item ID for %s", rec.MenuItem)
		}
		if !ok2 {
			log.Printf("Missing ingredient ID for %s", rec.Ingredient)
		}
		if !ok1 || !ok2 {
			continue
		}

		_, err := db.Exec(`
			INSERT INTO recipe_items (menu_item_id, ingredient_id, quantity_required, yield_factor)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (menu_item_id, ingredient_id) DO UPDATE SET
				quantity_required = EXCLUDED.quantity_required,
				yield_factor = EXCLUDED.yield_factor;
		`, menuID, ingID, rec.Quantity, rec.Yield)
		if err != nil {
			log.Printf("Failed to seed recipe for %s / %s: %v", rec.MenuItem, rec.Ingredient, err)
		}
	}
}
