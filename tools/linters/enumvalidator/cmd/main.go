package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"
	"matrixadmin.app/panel/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
