package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"landing_relay_app_go/client"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

func main() {
	// Load .env file (ignore error if not present)
	_ = godotenv.Load()

	endpoint := flag.String("endpoint", envOr("SUBMIT_ENDPOINT", "http://localhost:8080/api/submit"), "submission endpoint URL")
	siteKey := flag.String("site-key", os.Getenv("RECAPTCHA_SITE_KEY"), "reCAPTCHA site key")
	name := flag.String("name", "", "contact name")
	email := flag.String("email", "", "contact email")
	phone := flag.String("phone", "", "10-digit US phone number")
	description := flag.String("description", "", "project description")
	terms := flag.Bool("terms", false, "accept the terms (passing the flag adds the consent checkbox)")
	utm := flag.String("utm", "", "campaign query string, e.g. utm_source=google&utm_campaign=spring")
	token := flag.String("token", "", "pre-obtained verification token")
	browser := flag.String("browser", "", "page URL to mint an Enterprise token in headless Chrome")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	query, err := url.ParseQuery(strings.TrimPrefix(*utm, "?"))
	if err != nil {
		log.Fatalf("Invalid -utm value: %v", err)
	}

	form := client.NewForm("cli")
	form.Name = *name
	form.Email = *email
	form.Phone = *phone
	form.ProjectDescription = *description
	form.Query = query
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "terms" {
			form.HasTerms = true
			form.TermsChecked = *terms
		}
	})

	if term.IsTerminal(int(os.Stdin.Fd())) {
		promptMissing(form)
	}

	var provider client.TokenProvider
	if *browser != "" {
		provider = &client.BrowserTokenProvider{PageURL: *browser}
	} else {
		provider = client.NewStaticTokenProvider(*token)
	}

	ctrl := client.NewController(*endpoint, *siteKey, provider, nil)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	_, err = ctrl.Submit(ctx, form)
	fmt.Printf("[%s] %s\n", form.Status.Tone, form.Status.Message)
	if err != nil {
		log.Printf("Submission failed: %v", err)
		os.Exit(1)
	}
}

// promptMissing asks for the required fields left empty on the command line
func promptMissing(form *client.Form) {
	reader := bufio.NewReader(os.Stdin)
	ask := func(label string, target *string) {
		if *target != "" {
			return
		}
		fmt.Printf("%s: ", label)
		value, _ := reader.ReadString('\n')
		*target = strings.TrimSpace(value)
	}

	ask("Name", &form.Name)
	ask("Email", &form.Email)
	ask("Phone", &form.Phone)
	ask("Project description", &form.ProjectDescription)
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
