package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentLatestReportKey returns the cache key for a student's latest eligibility report
func (r *CacheKeyStruct) StudentLatestReportKey(studentID int) string {
	return fmt.Sprintf("student:%d:report:latest", studentID)
}

// StudentReportChannel returns the Redis PubSub channel carrying a student's report updates
func (r *CacheKeyStruct) StudentReportChannel(studentID int) string {
	return fmt.Sprintf("student:%d:reports", studentID)
}

// RateLimitKey returns the bucket name for a rate limited route and client
func (r *CacheKeyStruct) RateLimitKey(route, clientIP string) string {
	return fmt.Sprintf("ratelimit:%s:%s", route, clientIP)
}

var CacheKey = NewCacheKeyStruct()
