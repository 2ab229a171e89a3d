/*
Package session provides the Session driver family:
a component at components/Session/Session whose storage is chosen among
the drivers registered for the family.

	session:
	  driver: redis
	  cookie_name: sb_session
	  auth_key: 6a3f...
	  encrypt_key: 9c1d...
	  redis:
	    address: localhost:6379

The cookie driver stores sessions in the cookie itself through gorilla/sessions;
the redis driver stores them in Redis through boj/redistore.
Either way, a handler starts the session of its request through the Manager bound to its scope:

	v, _ := s.Get("session")
	sess, err := v.(*session.Manager).Start(s)
*/
package session
