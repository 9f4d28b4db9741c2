// Command seeddata loads a small development dataset: suppliers, the
// category tree, brands and a handful of products. Safe to re-run; it skips
// names that already exist.
package main

import (
	"os"
	"time"

	"bodega/internal/config"
	"bodega/internal/infra"
	"bodega/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	proveedores := seedProveedores(db)
	subcats := seedCategorias(db)
	marcas := seedMarcas(db)
	seedProductos(db, proveedores, subcats, marcas)

	log.Info().Msg("seed completed")
}

func seedProveedores(db *gorm.DB) []model.Proveedor {
	nombres := []string{"Distribuidora Central", "Almacenes del Sur", "Importadora La Paz"}
	out := make([]model.Proveedor, 0, len(nombres))
	for _, nombre := range nombres {
		var p model.Proveedor
		err := db.Where("nombre = ?", nombre).First(&p).Error
		if err == gorm.ErrRecordNotFound {
			p = model.Proveedor{Nombre: nombre, Activo: true}
			if err := db.Create(&p).Error; err != nil {
				log.Fatal().Err(err).Str("proveedor", nombre).Msg("seed proveedor")
			}
			log.Info().Str("proveedor", nombre).Msg("created")
		}
		out = append(out, p)
	}
	return out
}

func seedCategorias(db *gorm.DB) []model.Categoria {
	arbol := map[string][]string{
		"Abarrotes": {"Granos", "Enlatados", "Aceites"},
		"Bebidas":   {"Gaseosas", "Jugos"},
		"Limpieza":  {"Detergentes", "Papel"},
	}
	var subcats []model.Categoria
	for raiz, hijos := range arbol {
		var parent model.Categoria
		err := db.Where("nombre = ? AND parent_id IS NULL", raiz).First(&parent).Error
		if err == gorm.ErrRecordNotFound {
			parent = model.Categoria{Nombre: raiz}
			if err := db.Create(&parent).Error; err != nil {
				log.Fatal().Err(err).Str("categoria", raiz).Msg("seed categoria")
			}
		}
		for _, hijo := range hijos {
			var sub model.Categoria
			err := db.Where("nombre = ? AND parent_id = ?", hijo, parent.ID).First(&sub).Error
			if err == gorm.ErrRecordNotFound {
				sub = model.Categoria{Nombre: hijo, ParentID: &parent.ID}
				if err := db.Create(&sub).Error; err != nil {
					log.Fatal().Err(err).Str("subcategoria", hijo).Msg("seed subcategoria")
				}
			}
			subcats = append(subcats, sub)
		}
	}
	return subcats
}

func seedMarcas(db *gorm.DB) []model.Marca {
	nombres := []string{"Gloria", "Primor", "Sapolio", "Inca Kola"}
	out := make([]model.Marca, 0, len(nombres))
	for _, nombre := range nombres {
		var m model.Marca
		err := db.Where("nombre = ?", nombre).First(&m).Error
		if err == gorm.ErrRecordNotFound {
			m = model.Marca{Nombre: nombre}
			if err := db.Create(&m).Error; err != nil {
				log.Fatal().Err(err).Str("marca", nombre).Msg("seed marca")
			}
		}
		out = append(out, m)
	}
	return out
}

func seedProductos(db *gorm.DB, proveedores []model.Proveedor, subcats []model.Categoria, marcas []model.Marca) {
	if len(subcats) == 0 || len(marcas) == 0 {
		return
	}
	base := []struct {
		sku    string
		nombre string
		stock  int
		minimo int
		rot    model.Rotacion
	}{
		{"ARR-001", "Arroz extra 1kg", 120, 30, model.RotacionAlta},
		{"ACE-001", "Aceite vegetal 900ml", 60, 20, model.RotacionAlta},
		{"ATU-001", "Atún en lata 170g", 200, 50, model.RotacionMedia},
		{"DET-001", "Detergente en polvo 500g", 45, 15, model.RotacionMedia},
		{"GAS-001", "Gaseosa 1.5L", 80, 25, model.RotacionBaja},
	}
	for i, b := range base {
		marca := marcas[i%len(marcas)]
		subcat := subcats[i%len(subcats)]
		var existente model.Producto
		err := db.Where("sku = ? AND marca_id = ? AND subcategoria_id = ?", b.sku, marca.ID, subcat.ID).
			First(&existente).Error
		if err != gorm.ErrRecordNotFound {
			continue
		}
		proveedorID := proveedores[i%len(proveedores)].ID
		p := model.Producto{
			SKU:            b.sku,
			Nombre:         b.nombre,
			MarcaID:        marca.ID,
			SubcategoriaID: subcat.ID,
			ProveedorID:    &proveedorID,
			StockActual:    b.stock,
			StockMinimo:    b.minimo,
			Rotacion:       b.rot,
		}
		if err := db.Create(&p).Error; err != nil {
			log.Fatal().Err(err).Str("sku", b.sku).Msg("seed producto")
		}
		log.Info().Str("sku", b.sku).Msg("created")
	}
}
