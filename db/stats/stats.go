// Package stats batches bot counters and host statistics into InfluxDB.
// All methods are safe to call on a nil *Client, which discards everything.
package stats

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/easysystem/assistant/common/log"
)

// Client is an InfluxDB client
type Client struct {
	client influxdb2.Client
	write  api.WriteAPI

	mu       sync.Mutex
	cmds     uint32
	events   map[string]uint32
	requests map[string]uint32
}

// New creates a new client. Points are submitted every minute until ctx is cancelled.
// If url is empty, New returns nil and metrics are disabled.
func New(ctx context.Context, url, token, organization, bucket string) *Client {
	if url == "" {
		log.Debug("InfluxDB URL not set, not collecting metrics")
		return nil
	}

	c := &Client{
		client:   influxdb2.NewClientWithOptions(url, token, influxdb2.DefaultOptions().SetBatchSize(20)),
		events:   make(map[string]uint32),
		requests: make(map[string]uint32),
	}
	c.write = c.client.WriteAPI(organization, bucket)

	go c.submit(ctx)
	return c
}

// RegisterEvent counts one occurrence of a named event, such as "link_render" or "wizard_cancelled".
func (c *Client) RegisterEvent(name string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.events[name]++
	c.mu.Unlock()
}

// IncCommand increments the command count by one
func (c *Client) IncCommand() {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.cmds++
	c.mu.Unlock()
}

// IncRequest counts one REST request to the given path.
func (c *Client) IncRequest(path string) {
	if c == nil {
		return
	}

	name := NormalizePath(path)
	c.mu.Lock()
	c.requests[name]++
	c.mu.Unlock()
}

func (c *Client) submit(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			go c.submitInner()
		case <-ctx.Done():
			c.write.Flush()
			c.client.Close()
			return
		}
	}
}

func toFields(m map[string]uint32) (fields map[string]any, total uint32) {
	fields = make(map[string]any, len(m))
	for k, v := range m {
		total += v
		fields[k] = v
		m[k] = 0
	}
	return fields, total
}

func (c *Client) submitInner() {
	log.Debug("Submitting metrics to InfluxDB")

	c.mu.Lock()
	cmds := c.cmds
	c.cmds = 0
	events, totalEvents := toFields(c.events)
	requests, totalRequests := toFields(c.requests)
	c.mu.Unlock()

	now := time.Now()
	if len(events) > 0 {
		c.write.WritePoint(influxdb2.NewPoint("events", nil, events, now))
	}
	if len(requests) > 0 {
		c.write.WritePoint(influxdb2.NewPoint("requests", nil, requests, now))
	}

	stats := runtime.MemStats{}
	runtime.ReadMemStats(&stats)

	data := map[string]any{
		"events":      totalEvents,
		"requests":    totalRequests,
		"commands":    cmds,
		"alloc":       stats.Alloc,
		"sys":         stats.Sys,
		"total_alloc": stats.TotalAlloc,
		"goroutines":  runtime.NumGoroutine(),
	}

	sysMem, err := mem.VirtualMemory()
	if err != nil {
		log.Errorf("Error getting system memory: %v", err)
	} else {
		data["total_sys"] = sysMem.Used
		data["total_sys_percent"] = sysMem.UsedPercent
	}

	cpuData, err := cpu.Percent(time.Second, true)
	if err != nil {
		log.Errorf("Error getting cpu info: %v", err)
	} else {
		for i, d := range cpuData {
			data[fmt.Sprintf("cpu_%d", i)] = d
		}
	}

	c.write.WritePoint(influxdb2.NewPoint("statistics", nil, data, time.Now()))
}
