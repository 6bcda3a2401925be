package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kingrain94/notes-saas-api/internal/domain"
)

// stream_client prints the note events of the token's tenant as they arrive.
func main() {
	url := flag.String("url", "ws://localhost:10000/api/v1/notes/stream", "Note stream endpoint")
	flag.Parse()

	token := flag.Arg(0)
	if token == "" {
		token = os.Getenv("NOTES_TOKEN")
	}
	if token == "" {
		log.Fatal("Usage: stream_client [-url ws://host/api/v1/notes/stream] <JWT_TOKEN>")
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	fmt.Printf("Connecting to %s...\n", *url)
	conn, resp, err := websocket.DefaultDialer.Dial(*url, header)
	if err != nil {
		if resp != nil {
			log.Fatalf("Failed to connect: %v (HTTP %d)", err, resp.StatusCode)
		}
		log.Fatal("Failed to connect:", err)
	}
	defer conn.Close()

	fmt.Println("Connected! Waiting for note events...")
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var event domain.NoteEvent
			if err := conn.ReadJSON(&event); err != nil {
				log.Println("Read error:", err)
				return
			}
			title := ""
			if event.Note != nil {
				title = event.Note.Title
			}
			fmt.Printf("%s %-13s note=%s user=%s %q\n",
				event.OccurredAt.Format(time.RFC3339), event.Type, event.NoteID, event.UserID, title)
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		fmt.Println("\nDisconnecting...")
		err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("Write close:", err)
			return
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}
