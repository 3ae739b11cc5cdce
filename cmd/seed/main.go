package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"

	"socialnet/config"
	"socialnet/db"
	"socialnet/models"
	"socialnet/services"

	"github.com/brianvoe/gofakeit/v7"
)

// Генератор тестовых данных: регистрирует фейковых пользователей
// и строит случайный граф дружбы поверх них.
func main() {
	var configPath string
	var userCount int
	var avgFriends int
	var workers int
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.IntVar(&userCount, "users", 1000, "Number of fake users to create")
	flag.IntVar(&avgFriends, "friends", 10, "Average number of friends per user")
	flag.IntVar(&workers, "workers", 5, "Number of concurrent workers")
	flag.Parse()

	if err := config.LoadConfig(configPath); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if err := db.ConnectDB(); err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	ctx := context.Background()
	userService := services.NewUserService()

	ids := make([]int64, 0, userCount)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i := 0; i < userCount; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			name := gofakeit.FirstName()

			user := models.User{
				Nickname: fmt.Sprintf("%s_%s", strings.ToLower(name), gofakeit.Numerify("######")),
				Password: gofakeit.Password(true, false, true, true, false, 10),
				Name:     fmt.Sprintf("%s %s", name, gofakeit.LastName()),
				Bio:      gofakeit.Sentence(8),
				Location: gofakeit.City(),
			}
			userID, err := userService.Register(ctx, &user)
			if err != nil {
				log.Printf("register failed for %s: %v", user.Nickname, err)
				return
			}
			mu.Lock()
			ids = append(ids, userID)
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	log.Printf("Created %d users", len(ids))

	if len(ids) < 2 {
		return
	}

	// Случайные рёбра: дубликаты и петли отсеются на уникальном индексе
	edgeTarget := len(ids) * avgFriends / 2
	created := 0
	orm := db.GetWriteDB(ctx)
	for i := 0; i < edgeTarget*2 && created < edgeTarget; i++ {
		a := ids[rand.Intn(len(ids))]
		b := ids[rand.Intn(len(ids))]
		if a == b {
			continue
		}
		if err := services.InsertEdge(orm, a, b); err != nil {
			continue
		}
		created++
	}
	log.Printf("Created %d friendships", created)
}
