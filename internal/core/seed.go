package core

import "context"

// Seed populates an empty store with the demo fleet: three materials and one
// ship using all of them. A store that already holds materials is left alone.
// It reports whether anything was written.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	seeded := false
	err := s.run(ctx, "seed", func(ctx context.Context) error {
		_, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
			if len(tx.Snapshot().ListMaterials()) > 0 {
				return nil
			}
			lines := make([]CostLine, 0, 3)
			for _, m := range []struct {
				name   string
				price  int64
				amount int64
			}{
				{"Valkite", 10, 10},
				{"Ajatite", 20, 20},
				{"Bastium", 200, 30},
			} {
				created, err := tx.CreateMaterial(Material{Name: m.name, Price: m.price})
				if err != nil {
					return err
				}
				lines = append(lines, CostLine{MaterialID: created.ID, Amount: m.amount})
			}
			desc := "A fake ship that doesn't exist"
			ship, err := tx.CreateShip(Ship{Name: "TestShip", Designer: "Okim", Description: &desc})
			if err != nil {
				return err
			}
			if _, err := installLedger(tx, ship.ID, lines); err != nil {
				return err
			}
			seeded = true
			return nil
		})
		return err
	})
	if err == nil && seeded {
		s.logger.Info("seeded demo fleet")
	}
	return seeded, err
}

