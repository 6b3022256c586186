package main

import "github.com/shouni/go-headline-exact/cmd"

func main() {
	cmd.Execute()
}
