package main

import (
	"context"
	"log"

	"github.com/eshaffer321/foodapp-go/pkg/foodapp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	// Settings and the session come from FOODAPP_* variables and the shared
	// store, so a `foodctl login` beforehand authenticates the server too
	client, err := foodapp.NewClientFromEnv(context.Background())
	if err != nil {
		log.Fatalf("failed to initialize food app client: %v", err)
	}
	defer client.Close()

	impl := &mcp.Implementation{
		Name:    "foodapp",
		Version: "1.0.0",
	}

	server := mcp.NewServer(impl, nil)

	registerTools(server, client)

	// Run server over stdio transport
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func registerTools(server *mcp.Server, client *foodapp.Client) {
	tools := &foodTools{client: client}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_restaurants",
		Description: "List restaurants with cuisine, rating and whether they are open.",
	}, tools.ListRestaurants)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_menu",
		Description: "Get the meals a restaurant offers, with prices and availability.",
	}, tools.GetMenu)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_meals",
		Description: "Search meals across restaurants by name or description.",
	}, tools.SearchMeals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_orders",
		Description: "List the signed-in user's orders with status and total.",
	}, tools.ListOrders)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_cart",
		Description: "Show the local cart contents and total.",
	}, tools.GetCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_to_cart",
		Description: "Add a meal to the local cart. Looks the meal up first so the cart carries its current price.",
	}, tools.AddToCart)
}
