package db

// One entry per (site, dt). Inserts race on the unique key and lose with DO NOTHING.

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS weathersites (
    id BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    latitude DOUBLE PRECISION NOT NULL,
    longitude DOUBLE PRECISION NOT NULL,
    country TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS weatherdatas (
    id BIGSERIAL PRIMARY KEY,
    weathersite_id BIGINT NOT NULL REFERENCES weathersites (id) ON DELETE CASCADE,
    dt TIMESTAMPTZ NOT NULL,
    temp DOUBLE PRECISION NOT NULL,
    temp_min DOUBLE PRECISION NOT NULL,
    temp_max DOUBLE PRECISION NOT NULL,
    pressure DOUBLE PRECISION NOT NULL,
    sea_level DOUBLE PRECISION NOT NULL,
    grnd_level DOUBLE PRECISION NOT NULL,
    humidity INTEGER NOT NULL,
    temp_kf DOUBLE PRECISION NOT NULL,
    weatherid INTEGER NOT NULL,
    weathermain TEXT NOT NULL,
    weatherdescription TEXT NOT NULL,
    weathericon TEXT NOT NULL,
    clouds INTEGER NOT NULL,
    windspeed DOUBLE PRECISION NOT NULL,
    winddeg DOUBLE PRECISION NOT NULL,
    rain3 DOUBLE PRECISION,
    snow3 DOUBLE PRECISION,
    refreshed_at TIMESTAMPTZ NOT NULL,
    UNIQUE (weathersite_id, dt)
)`,
	`CREATE INDEX IF NOT EXISTS weatherdatas_site_dt_idx ON weatherdatas (weathersite_id, dt DESC)`,
}

// SQLite keeps timestamps as unix seconds.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS weathersites (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    country TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS weatherdatas (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    weathersite_id INTEGER NOT NULL REFERENCES weathersites (id) ON DELETE CASCADE,
    dt INTEGER NOT NULL,
    temp REAL NOT NULL,
    temp_min REAL NOT NULL,
    temp_max REAL NOT NULL,
    pressure REAL NOT NULL,
    sea_level REAL NOT NULL,
    grnd_level REAL NOT NULL,
    humidity INTEGER NOT NULL,
    temp_kf REAL NOT NULL,
    weatherid INTEGER NOT NULL,
    weathermain TEXT NOT NULL,
    weatherdescription TEXT NOT NULL,
    weathericon TEXT NOT NULL,
    clouds INTEGER NOT NULL,
    windspeed REAL NOT NULL,
    winddeg REAL NOT NULL,
    rain3 REAL,
    snow3 REAL,
    refreshed_at INTEGER NOT NULL,
    UNIQUE (weathersite_id, dt)
)`,
}
