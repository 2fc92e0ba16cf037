// Command foodctl drives the food ordering API from a terminal. Settings come
// from FOODAPP_* variables (and an optional .env); the session and the cart
// live in the configured store, so a login survives between invocations.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/eshaffer321/foodapp-go/pkg/foodapp"
)

const usage = `usage: foodctl <command> [flags] [args]

commands:
  login -email E -password P [-restaurant]
  logout
  whoami
  restaurants
  menu RESTAURANT_ID
  search QUERY
  cart [add MEAL_ID [QTY] | remove MEAL_ID | clear]
  checkout -address A [-notes N]
  orders [ORDER_ID]
  notifications
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	client, err := foodapp.NewClientFromEnv(ctx)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	code := 0
	ok, err := run(ctx, client, os.Stdout, os.Args[1], os.Args[2:])
	switch {
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage)
		code = 2
	case !ok:
		code = 1
	}

	// os.Exit skips deferred calls, so flush and close explicitly
	client.Close()
	stop()
	os.Exit(code)
}

// run executes one command and prints its result as JSON. ok is false when
// the API call failed; err is reserved for bad usage.
func run(ctx context.Context, client *foodapp.Client, out io.Writer, command string, args []string) (bool, error) {
	switch command {
	case "login":
		fs := flag.NewFlagSet("login", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		email := fs.String("email", os.Getenv("FOODAPP_EMAIL"), "Account email")
		password := fs.String("password", os.Getenv("FOODAPP_PASSWORD"), "Account password")
		restaurant := fs.Bool("restaurant", false, "Sign in as a restaurant")
		if err := fs.Parse(args); err != nil {
			return false, err
		}
		if *restaurant {
			return printResult(out, client.Auth.RestaurantLogin(ctx, *email, *password))
		}
		return printResult(out, client.Auth.Login(ctx, *email, *password))

	case "logout":
		if err := client.Auth.Logout(ctx); err != nil {
			return printError(out, err)
		}
		return printValue(out, map[string]string{"message": "Logged out"})

	case "whoami":
		user, err := client.Auth.CurrentUser(ctx)
		if err != nil {
			return printError(out, err)
		}
		return printValue(out, user)

	case "restaurants":
		return printResult(out, client.Restaurants.List(ctx))

	case "menu":
		if len(args) != 1 {
			return false, fmt.Errorf("menu takes a restaurant ID")
		}
		return printResult(out, client.Restaurants.Meals(ctx, args[0]))

	case "search":
		if len(args) != 1 {
			return false, fmt.Errorf("search takes a query")
		}
		return printResult(out, client.Meals.Search(ctx, args[0]))

	case "cart":
		return runCart(ctx, client, out, args)

	case "checkout":
		fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		address := fs.String("address", "", "Delivery address")
		notes := fs.String("notes", "", "Notes for the restaurant")
		if err := fs.Parse(args); err != nil {
			return false, err
		}
		return printResult(out, client.Orders.Checkout(ctx, *address, *notes))

	case "orders":
		if len(args) == 1 {
			return printResult(out, client.Orders.Get(ctx, args[0]))
		}
		return printResult(out, client.Orders.List(ctx))

	case "notifications":
		return printResult(out, client.Notifications.List(ctx))

	default:
		return false, fmt.Errorf("unknown command %q", command)
	}
}

func runCart(ctx context.Context, client *foodapp.Client, out io.Writer, args []string) (bool, error) {
	if len(args) == 0 {
		return printCart(ctx, client, out)
	}

	switch args[0] {
	case "add":
		if len(args) < 2 || len(args) > 3 {
			return false, fmt.Errorf("cart add takes a meal ID and an optional quantity")
		}
		quantity := 1
		if len(args) == 3 {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return false, fmt.Errorf("invalid quantity %q", args[2])
			}
			quantity = n
		}

		meal := client.Meals.Get(ctx, args[1])
		if !meal.Success {
			return printResult(out, meal)
		}
		if err := client.Cart.Add(ctx, meal.Data, quantity); err != nil {
			return printError(out, err)
		}

	case "remove":
		if len(args) != 2 {
			return false, fmt.Errorf("cart remove takes a meal ID")
		}
		if err := client.Cart.Remove(ctx, args[1]); err != nil {
			return printError(out, err)
		}

	case "clear":
		if err := client.Cart.Clear(ctx); err != nil {
			return printError(out, err)
		}

	default:
		return false, fmt.Errorf("unknown cart command %q", args[0])
	}

	return printCart(ctx, client, out)
}

func printCart(ctx context.Context, client *foodapp.Client, out io.Writer) (bool, error) {
	items, err := client.Cart.Items(ctx)
	if err != nil {
		return printError(out, err)
	}
	total, err := client.Cart.Total(ctx)
	if err != nil {
		return printError(out, err)
	}

	return printValue(out, map[string]interface{}{
		"items": items,
		"total": total.StringFixed(2),
	})
}

func printResult[T any](out io.Writer, result *foodapp.Result[T]) (bool, error) {
	if _, err := printValue(out, result); err != nil {
		return false, err
	}
	return result.Success, nil
}

func printError(out io.Writer, err error) (bool, error) {
	_, _ = printValue(out, map[string]string{"error": err.Error()})
	return false, nil
}

func printValue(out io.Writer, v interface{}) (bool, error) {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return false, fmt.Errorf("failed to encode output: %w", err)
	}
	return true, nil
}
