package main

import "github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/cmd"

func main() {
	cmd.Execute()
}
