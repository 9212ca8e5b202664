package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"skillswap/backend/internal/config"
	"skillswap/backend/internal/localization"
	clog "skillswap/backend/internal/log"
	"skillswap/backend/internal/models"
	"skillswap/backend/internal/notification"
	"skillswap/backend/internal/storage"

	"github.com/rs/zerolog/log"
)

const usage = `Usage: admin <command> [args]

Commands:
  add-user <email> <name>               create a user
  notifications <user_id> [limit]       list a user's notifications, newest first
  unread <user_id>                      print a user's unread notification count
  read-all <user_id>                    mark all of a user's notifications read
  history <swap_id>                     print the chat history of a swap
  notify <user_id> <title> <message>    store a notification (no realtime push)`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	clog.Init(cfg.Env)

	db, err := storage.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI
	notifications := notification.NewService(storageSvc, nil, localization.MustDefault()).WithLanguage(cfg.Locale)
	ctx := context.Background()

	command, args := os.Args[1], os.Args[2:]

	switch command {
	case "add-user":
		need(args, 2, "admin add-user <email> <name>")
		if err := storage.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
		user := &models.User{Email: args[0], Name: strings.Join(args[1:], " "), IsPublic: true}
		if err := storageSvc.SaveUser(ctx, user); err != nil {
			log.Fatal().Err(err).Msg("Error creating user")
		}
		fmt.Printf("User %s created with id %s.\n", user.Email, user.ID)

	case "notifications":
		need(args, 1, "admin notifications <user_id> [limit]")
		limit := 0
		if len(args) > 1 {
			if _, err := fmt.Sscanf(args[1], "%d", &limit); err != nil {
				fmt.Println("Invalid limit. Please provide an integer.")
				os.Exit(1)
			}
		}
		list, err := notifications.List(ctx, args[0], limit)
		if err != nil {
			log.Fatal().Err(err).Msg("Error listing notifications")
		}
		for _, n := range list {
			mark := " "
			if !n.IsRead {
				mark = "*"
			}
			fmt.Printf("%s %s  %-14s %s: %s\n", mark, n.CreatedAt.Format("2006-01-02 15:04"), n.Type, n.Title, n.Message)
		}

	case "unread":
		need(args, 1, "admin unread <user_id>")
		count, err := notifications.UnreadCount(ctx, args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("Error counting notifications")
		}
		fmt.Println(count)

	case "read-all":
		need(args, 1, "admin read-all <user_id>")
		changed, err := notifications.MarkAllRead(ctx, args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("Error marking notifications read")
		}
		fmt.Printf("%d notifications marked read.\n", changed)

	case "history":
		need(args, 1, "admin history <swap_id>")
		if err := printHistory(ctx, storageSvc, args[0]); err != nil {
			log.Fatal().Err(err).Msg("Error reading history")
		}

	case "notify":
		need(args, 3, "admin notify <user_id> <title> <message>")
		n, err := notifications.Notify(ctx, args[0], models.NotificationMessage, args[1], strings.Join(args[2:], " "), models.NotificationData{})
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating notification")
		}
		fmt.Printf("Notification %s stored for %s.\n", n.ID, args[0])

	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

func need(args []string, n int, msg string) {
	if len(args) < n {
		fmt.Println("Usage:", msg)
		os.Exit(1)
	}
}

func printHistory(ctx context.Context, s storage.Storage, swapID string) error {
	sw, err := s.FindSwapByID(ctx, swapID)
	if err != nil {
		return err
	}
	if sw == nil {
		return fmt.Errorf("swap %s not found", swapID)
	}
	history, err := s.ListMessagesBySwap(ctx, swapID)
	if err != nil {
		return err
	}
	users, err := s.FindUsersByIDs(ctx, []string{sw.FromUserID, sw.ToUserID})
	if err != nil {
		return err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	fmt.Printf("Swap %s (%s), %d messages\n", sw.ID, sw.Status, len(history))
	for _, m := range history {
		fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("2006-01-02 15:04:05"), names[m.FromUserID], m.Body)
	}
	return nil
}
