package main

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/codingconcepts/env"
	"github.com/joho/godotenv"

	"github.com/reddit-bot/install/internal/slack"
	"github.com/reddit-bot/install/internal/statetoken"
)

type Config struct {
	SlackClientSecret string `env:"SLACK_CLIENT_SECRET" required:"true"`
}

func main() {
	// We only want to exercise the callback locally: mint a state token with
	// the configured signing secret and print an /authorize URL that will
	// pass CSRF verification against a locally running server
	authorizeUrl := flag.String("url", "http://localhost:5000/authorize", "address of the local /authorize endpoint")
	code := flag.String("code", "test-code", "authorization code to include in the callback")
	denied := flag.Bool("denied", false, "simulate the user declining the requested permissions")
	flag.Parse()

	// Parse config from environment variables
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Fatalf("error loading .env file: %v", err)
	}
	config := Config{}
	if err := env.Set(&config); err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	state, err := statetoken.NewCodec(config.SlackClientSecret).Issue()
	if err != nil {
		log.Fatalf("error issuing state token: %v", err)
	}

	u, err := url.Parse(*authorizeUrl)
	if err != nil {
		log.Fatalf("invalid -url value: %v", err)
	}
	q := u.Query()
	q.Add("code", *code)
	q.Add("state", state)
	if *denied {
		q.Add("error", slack.ErrorAccessDenied)
	}
	u.RawQuery = q.Encode()

	fmt.Println(u.String())
}
