package main

import (
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/evolution-of-todo/todo-system/internal/cli"
	"github.com/evolution-of-todo/todo-system/internal/core/service"
)

func main() {
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	go func() {
		<-interrupts
		fmt.Println("\nGoodbye!")
		os.Exit(0)
	}()

	menu := cli.NewMenu(
		service.NewTaskService(),
		os.Stdin,
		os.Stdout,
		cli.WithInteractive(term.IsTerminal(int(os.Stdin.Fd()))),
	)
	menu.Run()
}
