package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/d60-Lab/shop-api/config"
	"github.com/d60-Lab/shop-api/internal/dto"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/internal/service"
	"github.com/d60-Lab/shop-api/pkg/database"
	"github.com/d60-Lab/shop-api/pkg/logger"
)

// BenchResult 一轮压测结果
type BenchResult struct {
	Name            string
	Duration        time.Duration
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	QPS             float64
	AvgLatency      time.Duration
	P50Latency      time.Duration
	P95Latency      time.Duration
	P99Latency      time.Duration
}

func main() {
	orders := flag.Int("orders", 2000, "下单总数")
	concurrency := flag.Int("c", 32, "并发数")
	products := flag.Int("products", 20, "商品数")
	customers := flag.Int("customers", 200, "客户数，下单时随机复用")
	flag.Parse()

	cfg := must(config.Load())
	mustDo(logger.Init("warn", cfg.Log.Format))
	defer logger.Sync()

	db := must(database.InitDB(cfg))
	mustDo(repository.AutoMigrate(db))
	ctx := context.Background()

	fmt.Println("===== 并发下单压测 =====")
	fmt.Printf("订单数: %d  并发: %d  商品数: %d  客户数: %d  驱动: %s  行锁: %v\n",
		*orders, *concurrency, *products, *customers, cfg.Database.Driver, database.SupportsRowLocking(db))

	productRepo := repository.NewProductRepository(db)
	ids := seedProducts(ctx, productRepo, *products)

	svc := service.NewOrderService(db,
		repository.NewOrderRepository(db),
		repository.NewCustomerRepository(db),
		productRepo,
		repository.NewOutboxRepository(db),
	)

	result := benchCreate(ctx, svc, ids, *orders, *concurrency, *customers)
	printBenchResult(result)
}

func seedProducts(ctx context.Context, repo repository.ProductRepository, n int) []string {
	tag := uuid.New().String()[:8]
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		regular := decimal.NewFromInt(int64(100000 + i*1000))
		p := &model.Product{
			Name:         fmt.Sprintf("bench %s %d", tag, i),
			Code:         fmt.Sprintf("B-%s-%d", tag, i),
			Slug:         fmt.Sprintf("bench-%s-%d", tag, i),
			RegularPrice: model.NewMoney(regular),
			SalePrice:    model.NewMoney(regular.Mul(decimal.RequireFromString("0.9")).Round(2)),
			Currency:     model.DefaultCurrency,
			IsActive:     true,
		}
		mustDo(repo.Create(ctx, p))
		ids = append(ids, p.ID)
	}
	return ids
}

func benchCreate(ctx context.Context, svc service.OrderService, productIDs []string, total, concurrency, customers int) *BenchResult {
	var success, failed int64
	latencies := make([]time.Duration, total)
	feed := make(chan int, total)
	for i := 0; i < total; i++ {
		feed <- i
	}
	close(feed)

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				email := fmt.Sprintf("bench%d@example.com", i%customers)
				qty := 1 + i%3
				req := dto.CreateOrderRequest{
					Customer: dto.OrderCustomer{FullName: "Bench User", Email: &email},
					Items: []dto.OrderItemRequest{
						{ProductID: productIDs[i%len(productIDs)], Quantity: &qty},
						{ProductID: productIDs[(i+1)%len(productIDs)]},
					},
				}
				st := time.Now()
				_, err := svc.Create(ctx, req)
				latencies[i] = time.Since(st)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					logger.Warn("create order failed", zap.Error(err))
					continue
				}
				atomic.AddInt64(&success, 1)
			}
		}()
	}
	wg.Wait()
	return calculateResult("下单", time.Since(start), int64(total), success, failed, latencies)
}

func calculateResult(name string, duration time.Duration, total, success, failed int64, latencies []time.Duration) *BenchResult {
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	r := &BenchResult{
		Name:            name,
		Duration:        duration,
		TotalRequests:   total,
		SuccessRequests: success,
		FailedRequests:  failed,
	}
	if duration > 0 {
		r.QPS = float64(success) / duration.Seconds()
	}
	if len(latencies) > 0 {
		r.AvgLatency = sum / time.Duration(len(latencies))
		r.P50Latency = percentile(latencies, 0.50)
		r.P95Latency = percentile(latencies, 0.95)
		r.P99Latency = percentile(latencies, 0.99)
	}
	return r
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func printBenchResult(r *BenchResult) {
	fmt.Printf("\n[%s]\n", r.Name)
	fmt.Printf("  总耗时:   %v\n", r.Duration)
	fmt.Printf("  请求数:   %d (成功 %d, 失败 %d)\n", r.TotalRequests, r.SuccessRequests, r.FailedRequests)
	fmt.Printf("  QPS:      %.2f\n", r.QPS)
	fmt.Printf("  平均延迟: %v\n", r.AvgLatency)
	fmt.Printf("  P50:      %v\n", r.P50Latency)
	fmt.Printf("  P95:      %v\n", r.P95Latency)
	fmt.Printf("  P99:      %v\n", r.P99Latency)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}
