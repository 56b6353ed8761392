package main

import "github.com/MeKo-Tech/textflow/cmd/ocr/cmd"

func main() {
	cmd.Execute()
}
