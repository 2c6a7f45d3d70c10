package main

import "github.com/redactyl/anonymizer/cmd/anonymizer"

func main() { anonymizer.Execute() }
