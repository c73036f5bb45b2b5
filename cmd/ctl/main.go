package main

import "github.com/taggamecreator/tag-echobound-servers/internal/cli"

func main() {
	cli.Execute()
}
