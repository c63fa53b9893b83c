// Command testserver runs a stub target service for local benchmark
// runs.
//
// Usage:
//
//	testserver [flags]
//
// Flags:
//
//	-port    Port to listen on (default: 8080)
//	-host    Host to bind to (default: localhost)
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"apibench/testserver"
)

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	host := flag.String("host", "localhost", "host to bind to")
	flag.Parse()

	server := testserver.NewServer()
	addr := fmt.Sprintf("%s:%d", *host, *port)

	fmt.Println("apibench Test Server")
	fmt.Println("====================")
	fmt.Printf("Listening on http://%s\n\n", addr)
	fmt.Println("Endpoints:")
	fmt.Println("  GET  /                    - Ping / service identity")
	fmt.Println("  PUT  /{index}             - Acknowledge index creation (?ack=false to refuse)")
	fmt.Println("  POST /{index}/_doc        - Index a document")
	fmt.Println("  POST /_bulk               - Acknowledge a bulk body (?errors=true to reject)")
	fmt.Println("  GET  /status/{code}       - Return specific status code")
	fmt.Println("  GET  /delay/{ms}          - Delay response by milliseconds")
	fmt.Println()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		os.Exit(0)
	}()

	log.Fatal(http.ListenAndServe(addr, server.Handler()))
}
