package sqlite

const schema = `
-- Affiliations table
CREATE TABLE IF NOT EXISTS affiliations (
    affiliation_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    update_signatures BIGINT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_affiliations_name ON affiliations(name);

-- Livers table
CREATE TABLE IF NOT EXISTS livers (
    liver_id INTEGER PRIMARY KEY,
    affiliation_id INTEGER,
    name TEXT NOT NULL,
    localized_name TEXT NOT NULL DEFAULT '',
    update_signatures BIGINT NOT NULL DEFAULT 0,
    FOREIGN KEY (affiliation_id) REFERENCES affiliations(affiliation_id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_livers_affiliation ON livers(affiliation_id);
CREATE INDEX IF NOT EXISTS idx_livers_name ON livers(name);

-- Channels table
CREATE TABLE IF NOT EXISTS channels (
    channel_id TEXT PRIMARY KEY,
    liver_id INTEGER,
    logo_url TEXT NOT NULL DEFAULT '',
    published_at DATETIME NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    update_signatures BIGINT NOT NULL DEFAULT 0,
    FOREIGN KEY (liver_id) REFERENCES livers(liver_id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_channels_liver ON channels(liver_id);

-- Videos table
CREATE TABLE IF NOT EXISTS videos (
    video_id TEXT PRIMARY KEY,
    channel_id TEXT,
    title TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    published_at DATETIME,
    updated_at DATETIME,
    will_start_at DATETIME,
    started_at DATETIME,
    thumbnail_url TEXT NOT NULL DEFAULT '',
    update_signatures BIGINT NOT NULL DEFAULT 0,
    FOREIGN KEY (channel_id) REFERENCES channels(channel_id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_videos_channel ON videos(channel_id);
CREATE INDEX IF NOT EXISTS idx_videos_will_start_at ON videos(will_start_at);
`
