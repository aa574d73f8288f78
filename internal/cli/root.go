package cli

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/Estore-api/pkg/config"
	"github.com/jhoicas/Estore-api/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "estorectl",
	Short:         "Herramientas de operación de eStore",
	Long:          "Aplica migraciones, carga datos iniciales y exporta/importa la lista de precios.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute ejecuta el comando raíz.
func Execute() error {
	return rootCmd.Execute()
}

// environment configuración y logger compartidos por los subcomandos.
func environment() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("estorectl")
	return cfg, log, nil
}
