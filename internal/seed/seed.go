// Package seed bootstraps an empty deployment with the master account, the
// default template menu and its categories. Everything here is idempotent:
// presence is checked before every insert so a restart never duplicates data.
package seed

import (
	"context"
	"errors"
	"fmt"

	"pizzeria-service/internal/model"
	"pizzeria-service/internal/store"
	"pizzeria-service/pkg/config"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Run ensures the master account exists and, when the master menu is empty,
// inserts the default template menu.
func Run(ctx context.Context, st store.Store, cfg *config.Config, log *zap.Logger) error {
	if err := ensureMasterUser(ctx, st, cfg, log); err != nil {
		return fmt.Errorf("seed master user: %w", err)
	}

	items, err := st.QueryItems(ctx, store.ItemFilter{Owner: store.Of(model.MasterTenant)})
	if err != nil {
		return fmt.Errorf("seed: check master menu: %w", err)
	}
	if len(items) > 0 {
		log.Debug("Master menu already present, skipping seed",
			zap.Int("items", len(items)))
		return nil
	}

	for _, category := range defaultCategories() {
		category.Owner = model.MasterTenant
		category.Active = true
		if err := st.CreateCategory(ctx, &category); err != nil {
			return fmt.Errorf("seed category %q: %w", category.Name, err)
		}
	}

	seeded := 0
	for _, item := range defaultMenu() {
		item.Owner = model.MasterTenant
		item.Active = true
		if err := st.CreateItem(ctx, &item); err != nil {
			return fmt.Errorf("seed item %q: %w", item.Name, err)
		}
		seeded++
	}

	log.Info("Master menu seeded", zap.Int("items", seeded))
	return nil
}

// ensureMasterUser creates the master account when no profile carries the
// configured master email.
func ensureMasterUser(ctx context.Context, st store.Store, cfg *config.Config, log *zap.Logger) error {
	_, err := st.GetUserByEmail(ctx, cfg.Master.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Master.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	master := model.User{
		Email:         cfg.Master.Email,
		Password:      string(hashed),
		Role:          model.RoleAdmin,
		Roles:         []model.UserRole{model.RoleAdmin, model.RolePizzeria, model.RoleClient},
		SelectedSpace: model.RolePizzeria,
		FullName:      "Pizzeria Master",
	}
	if err := st.CreateUser(ctx, &master); err != nil {
		return err
	}
	log.Info("Master account created", zap.String("email", cfg.Master.Email))
	return nil
}

func defaultCategories() []model.Category {
	return []model.Category{
		{Name: "Classiques", Description: "Les incontournables de la maison"},
		{Name: "Végétariennes", Description: "Sans viande, tout en saveur"},
		{Name: "Spécialités", Description: "Les créations du chef"},
		{Name: "Boissons", Description: "Sodas, eaux et jus"},
		{Name: "Desserts", Description: "Pour finir en douceur"},
	}
}

// defaultMenu is the template every new tenant starts from.
func defaultMenu() []model.MenuItem {
	return []model.MenuItem{
		{
			Kind:        model.KindPizza,
			Name:        "Marguerite",
			Description: "La classique tomate, mozzarella et basilic frais",
			Category:    "Classiques",
			Ingredients: []string{"sauce tomate", "mozzarella", "basilic", "huile d'olive"},
			Vegetarian:  true,
			Prices:      model.Prices{Small: 8.50, Medium: 11.50, Large: 14.50},
		},
		{
			Kind:        model.KindPizza,
			Name:        "Reine",
			Description: "Jambon, champignons et mozzarella",
			Category:    "Classiques",
			Ingredients: []string{"sauce tomate", "mozzarella", "jambon", "champignons"},
			Prices:      model.Prices{Small: 9.50, Medium: 12.50, Large: 15.50},
		},
		{
			Kind:        model.KindPizza,
			Name:        "Quatre Fromages",
			Description: "Mozzarella, gorgonzola, chèvre et parmesan",
			Category:    "Classiques",
			Ingredients: []string{"crème fraîche", "mozzarella", "gorgonzola", "chèvre", "parmesan"},
			Vegetarian:  true,
			Prices:      model.Prices{Small: 10.00, Medium: 13.00, Large: 16.00},
		},
		{
			Kind:        model.KindPizza,
			Name:        "Pepperoni",
			Description: "Pepperoni relevé et double mozzarella",
			Category:    "Classiques",
			Ingredients: []string{"sauce tomate", "mozzarella", "pepperoni"},
			Prices:      model.Prices{Small: 9.50, Medium: 12.50, Large: 15.50},
		},
		{
			Kind:        model.KindPizza,
			Name:        "Végétarienne",
			Description: "Légumes grillés de saison sur base tomate",
			Category:    "Végétariennes",
			Ingredients: []string{"sauce tomate", "mozzarella", "poivrons", "courgettes", "aubergines", "oignons rouges"},
			Vegetarian:  true,
			Prices:      model.Prices{Small: 9.00, Medium: 12.00, Large: 15.00},
		},
		{
			Kind:        model.KindPizza,
			Name:        "Orientale",
			Description: "Merguez, poivrons et oeuf",
			Category:    "Spécialités",
			Ingredients: []string{"sauce tomate", "mozzarella", "merguez", "poivrons", "oeuf"},
			Prices:      model.Prices{Small: 10.00, Medium: 13.00, Large: 16.00},
		},
		{
			Kind:                 model.KindPizza,
			Name:                 "Calzone",
			Description:          "Chausson garni jambon, mozzarella et oeuf",
			Category:             "Spécialités",
			Ingredients:          []string{"sauce tomate", "mozzarella", "jambon", "oeuf"},
			Prices:               model.Prices{Small: 10.50, Medium: 13.50, Large: 16.50},
			Customizable:         true,
			MaxCustomIngredients: 3,
			CustomIngredients:    []string{"champignons", "olives", "chorizo", "artichauts"},
		},
		{
			Kind:           model.KindExtra,
			Name:           "Coca-Cola 33cl",
			Category:       "Boissons",
			HasUniquePrice: true,
			UniquePrice:    2.50,
		},
		{
			Kind:           model.KindExtra,
			Name:           "Eau minérale 50cl",
			Category:       "Boissons",
			HasUniquePrice: true,
			UniquePrice:    1.80,
		},
		{
			Kind:           model.KindExtra,
			Name:           "Tiramisu maison",
			Description:    "Au mascarpone et café",
			Category:       "Desserts",
			HasUniquePrice: true,
			UniquePrice:    4.50,
		},
	}
}
