package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/pratik-mahalle/horizon/pkg/client"
)

// Example demonstrates signing in and reading the current account
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "https://identity.horizon.example",
		APIKey:  "project-key",
	})

	ctx := context.Background()

	session, err := c.CreateSession(ctx, "user@example.com", "secret1")
	if err != nil {
		log.Fatal(err)
	}
	if session == nil {
		fmt.Println("No session")
		return
	}

	user, err := c.WithToken(session.Token).GetCurrentUser(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Welcome, %s\n", user.FirstName)
}

// ExampleClient_CreateAccount demonstrates registering a new account
func ExampleClient_CreateAccount() {
	c := client.NewClient(client.Config{
		BaseURL: "https://identity.horizon.example",
	})

	user, err := c.CreateAccount(context.Background(), client.CreateAccountRequest{
		FirstName:        "Ishaan",
		LastName:         "Yeole",
		Address:          "12 MG Road",
		City:             "Nashik",
		State:            "MH",
		PostalCode:       "422001",
		DateOfBirth:      "1999-04-12",
		NationalIDNumber: "123412341234",
		Email:            "ishaan@example.com",
		Password:         "secret1",
	})
	if err != nil {
		if apiErr, ok := client.AsAPIError(err); ok && apiErr.IsConflict() {
			fmt.Println("Account already exists")
			return
		}
		log.Fatal(err)
	}

	fmt.Printf("Created account %s\n", user.ID)
}
