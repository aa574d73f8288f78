// estorectl tareas de operación: migraciones, datos iniciales y lista de precios.
package main

import (
	"os"

	"github.com/jhoicas/Estore-api/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
