package httputil_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/orbit/pkg/httputil"
)

func ExampleRetrier() {
	// Record delays instead of sleeping.
	var slept []time.Duration
	sleeper := httputil.SleeperFunc(func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	})

	r := httputil.Retrier{Attempts: 3, BaseDelay: time.Second, Sleeper: sleeper}
	attempts, err := r.Do(context.Background(), func(attempt int) error {
		return errors.New("service unavailable")
	})

	fmt.Println("Attempts:", attempts)
	fmt.Println("Slept:", slept)
	fmt.Println("Error:", err)
	// Output:
	// Attempts: 3
	// Slept: [1s 2s]
	// Error: giving up after 3 attempts: service unavailable
}

func ExampleRedactURL() {
	fmt.Println(httputil.RedactURL("https://api.nasa.gov/planetary/apod?api_key=abc123"))
	// Output: https://api.nasa.gov/planetary/apod?api_key=REDACTED
}
