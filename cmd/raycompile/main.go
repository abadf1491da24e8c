package main

import (
	// Register plugins via side-effects
	_ "raycompile/internal/collectors/file"
	_ "raycompile/internal/collectors/http"
	_ "raycompile/internal/collectors/telegram"
	_ "raycompile/internal/publishers/file"
	_ "raycompile/internal/publishers/github"
	_ "raycompile/internal/publishers/stdout"
)

func main() {
	Execute()
}
