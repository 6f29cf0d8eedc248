package services

import (
	"context"
	"os"
	"smebackend/clients/http_client"
	mongo_client "smebackend/clients/mongo"
	"smebackend/types"
	"smebackend/utils/helpers"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gopkg.in/mgo.v2/bson"
)

type IndustryServiceI interface {
	Snapshot() types.IndustryRiskTable
	Refresh()
}

// industryService keeps an in-memory snapshot of the industry
// volatility table. The table is scraped from the configured source,
// mirrored to Mongo, and handed to the risk assessor as read-only data.
type industryService struct {
	mu    sync.RWMutex
	table types.IndustryRiskTable
}

var IndustryService IndustryServiceI = &industryService{
	table: types.IndustryRiskTable{},
}

func (s *industryService) Snapshot() types.IndustryRiskTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make(types.IndustryRiskTable, len(s.table))
	for k, v := range s.table {
		snapshot[k] = v
	}
	return snapshot
}

// Refresh scrapes the volatility source and swaps the snapshot. On any
// failure it falls back to the last table stored in Mongo, so a broken
// source never empties the snapshot.
func (s *industryService) Refresh() {
	url := os.Getenv("INDUSTRY_RISK_URL")
	if url == "" {
		s.loadStored()
		return
	}

	table, err := scrapeIndustryTable(url)
	if err != nil || len(table) == 0 {
		zap.L().Error("Industry risk scrape failed, falling back to stored table", zap.Error(err))
		s.loadStored()
		return
	}

	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
	zap.L().Info("Industry risk table refreshed", zap.Int("industries", len(table)))

	s.store(table)
}

// scrapeIndustryTable reads rows of industry name and volatility index
// from the source page's table.
func scrapeIndustryTable(url string) (types.IndustryRiskTable, error) {
	body, err := http_client.GetPage(url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, err
	}

	table := types.IndustryRiskTable{}
	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		industry := helpers.NormalizeString(cells.Eq(0).Text())
		if industry == "" {
			return
		}
		volatility := helpers.ToFloat(cells.Eq(1).Text())
		if volatility < 0 || volatility > 1 {
			zap.L().Warn("Ignoring out-of-range volatility", zap.String("industry", industry), zap.Float64("value", volatility))
			return
		}
		table[industry] = volatility
	})
	return table, nil
}

func (s *industryService) loadStored() {
	if mongo_client.Client == nil {
		return
	}
	collection := mongo_client.Database().Collection("industry_risk")
	cursor, err := collection.Find(context.Background(), bson.M{})
	if err != nil {
		zap.L().Error("Error while fetching industry risk documents", zap.Error(err))
		return
	}
	defer cursor.Close(context.Background())

	table := types.IndustryRiskTable{}
	for cursor.Next(context.Background()) {
		var result bson.M
		if err := cursor.Decode(&result); err != nil {
			zap.L().Error("Error while decoding industry risk document", zap.Error(err))
			continue
		}
		name, _ := result["_id"].(string)
		volatility, ok := result["volatility"].(float64)
		if name == "" || !ok {
			continue
		}
		table[name] = volatility
	}
	if len(table) == 0 {
		return
	}

	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
	zap.L().Info("Industry risk table loaded from store", zap.Int("industries", len(table)))
}

func (s *industryService) store(table types.IndustryRiskTable) {
	if mongo_client.Client == nil {
		return
	}
	collection := mongo_client.Database().Collection("industry_risk")
	updateOptions := options.Update().SetUpsert(true)
	for industry, volatility := range table {
		update := bson.M{"$set": bson.M{"volatility": volatility, "updated_at": time.Now()}}
		if _, err := collection.UpdateOne(context.Background(), bson.M{"_id": industry}, update, updateOptions); err != nil {
			zap.L().Error("Error while storing industry risk", zap.String("industry", industry), zap.Error(err))
		}
	}
}
