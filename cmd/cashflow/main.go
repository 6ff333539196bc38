package main

import (
	"github.com/joho/godotenv"
	"github.com/rpgo/cashflow/internal/cli"
)

func main() {
	// .env is optional; CASHFLOW_* variables may also come from the shell
	_ = godotenv.Load()
	cli.Execute()
}
