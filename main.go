package main

import "github.com/Taichi-iskw/yt-vault/cmd"

func main() {
	cmd.Execute()
}
