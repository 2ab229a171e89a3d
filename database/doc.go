/*
Package database connects the data-access component of an app to PostgreSQL through GORM.

The component is loaded by name like any other: a "database" entry in the libraries autoloaded,
or a call to the loader's Database, decodes a connection group of config/database into a CxnConfig,
connects, runs any migrations registered with it, and binds a *DB under "db".
*/
package database
