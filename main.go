package main

import "github.com/idlidosa1206/Fusion-System-Administrator/cmd"

func main() {
	cmd.Execute()
}
