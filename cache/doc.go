/*
Package cache provides the Cache driver family:
a component at components/Cache/Cache whose storage is its adapter driver,
falling back to its backup driver when the adapter is not supported where the app runs.

	cache:
	  adapter: redis
	  backup: memory
	  key_prefix: app_
	  ttl: 300
	  redis:
	    address: localhost:6379

The memory driver lives for as long as the process does;
the redis driver connects through go-redis.
*/
package cache
