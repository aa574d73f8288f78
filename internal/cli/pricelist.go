package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Estore-api/internal/application/usecase"
	"github.com/jhoicas/Estore-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Estore-api/pkg/logger"
)

var importLatin1 bool

var pricelistCmd = &cobra.Command{
	Use:   "pricelist",
	Short: "Exporta o importa la lista de precios en CSV",
}

var pricelistExportCmd = &cobra.Command{
	Use:   "export <archivo>",
	Short: "Escribe la lista de precios actual",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPriceList(cmd.Context(), func(uc *usecase.PriceListUseCase, _ *logger.Logger) error {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := uc.Export(cmd.Context(), f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			cmd.Printf("lista de precios escrita en %s\n", args[0])
			return nil
		})
	},
}

var pricelistImportCmd = &cobra.Command{
	Use:   "import <archivo>",
	Short: "Crea o actualiza productos desde un CSV",
	Long:  "Filas con ID vacío se crean y el resto se actualiza. Una fila inválida cancela toda la importación.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return withPriceList(cmd.Context(), func(uc *usecase.PriceListUseCase, _ *logger.Logger) error {
			res, err := uc.Import(cmd.Context(), priceListReader(f, importLatin1))
			if err != nil {
				return err
			}
			cmd.Printf("creados: %d, actualizados: %d\n", res.Created, res.Updated)
			return nil
		})
	},
}

// priceListReader decodifica ISO-8859-1 (CSV exportados desde planillas antiguas) a UTF-8.
func priceListReader(r io.Reader, latin1 bool) io.Reader {
	if !latin1 {
		return r
	}
	return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
}

func withPriceList(ctx context.Context, fn func(uc *usecase.PriceListUseCase, log *logger.Logger) error) error {
	cfg, log, err := environment()
	if err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	categories := usecase.NewCategoryUseCase(postgres.NewCategoryRepository(pool), productRepo)
	tx := postgres.NewTxRunner(pool)
	products := usecase.NewProductUseCase(productRepo, categories, postgres.NewMeasureUnitsRepository(pool), cfg.Store.TopProductsLength).WithTx(tx)
	return fn(usecase.NewPriceListUseCase(products, tx, log), log)
}

func init() {
	pricelistImportCmd.Flags().BoolVar(&importLatin1, "latin1", false, "el archivo está en ISO-8859-1")
	pricelistCmd.AddCommand(pricelistExportCmd, pricelistImportCmd)
	rootCmd.AddCommand(pricelistCmd)
}
