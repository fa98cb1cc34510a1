//go:build tools

package main

// Ferramentas de build versionadas junto com o módulo.
// swag gera docs/swagger.json a partir das anotações dos handlers.
import (
	_ "github.com/swaggo/swag"
)
