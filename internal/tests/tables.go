package tests

const (

	// TriggersDropTableV1 SQL statement for table drop
	TriggersDropTableV1 string = `DROP TABLE IF EXISTS triggers_v1;`
	// TriggersTableV1 SQL statement for the triggers table
	TriggersTableV1 string = `CREATE TABLE IF NOT EXISTS triggers_v1 (
		id serial PRIMARY KEY,
		name varchar(100) not null UNIQUE,
		category varchar(100) not null,
		priority integer not null,
		enabled boolean not null,
		cooldown_seconds integer not null,
		condition text not null,
		last_fired_at timestamptz,
		fire_count integer not null,
		created_at timestamptz not null,
		updated_at timestamptz not null
	);`

	// DecisionsDropTableV1 SQL statement for table drop
	DecisionsDropTableV1 string = `DROP TABLE IF EXISTS decisions_v1;`
	// DecisionsTableV1 SQL statement for the decision log table
	DecisionsTableV1 string = `CREATE TABLE IF NOT EXISTS decisions_v1 (
		id uuid PRIMARY KEY,
		trigger_id integer,
		candidate_id varchar(100),
		event_type varchar(100) not null,
		payload jsonb,
		tier varchar(20) not null,
		score integer not null,
		score_breakdown jsonb not null,
		channels jsonb not null,
		targets jsonb not null,
		budget_estimate numeric not null,
		processing_ms integer not null,
		executed boolean not null,
		executed_at timestamptz,
		created_at timestamptz not null
	);`

	// ContactFatigueDropTableV1 SQL statement for table drop
	ContactFatigueDropTableV1 string = `DROP TABLE IF EXISTS contact_fatigue_v1;`
	// ContactFatigueTableV1 SQL statement for the contact fatigue table
	ContactFatigueTableV1 string = `CREATE TABLE IF NOT EXISTS contact_fatigue_v1 (
		contact_id varchar(100) not null,
		channel varchar(100) not null,
		last_contact_at timestamptz not null,
		contacts_today integer not null,
		contacts_week integer not null,
		contacts_month integer not null,
		contacts_total bigint not null,
		PRIMARY KEY(contact_id, channel)
	);`

	// ChannelBudgetsDropTableV1 SQL statement for table drop
	ChannelBudgetsDropTableV1 string = `DROP TABLE IF EXISTS channel_budgets_v1;`
	// ChannelBudgetsTableV1 SQL statement for the channel budgets table
	ChannelBudgetsTableV1 string = `CREATE TABLE IF NOT EXISTS channel_budgets_v1 (
		candidate_id varchar(100) not null,
		channel varchar(100) not null,
		daily_limit numeric not null,
		weekly_limit numeric not null,
		monthly_limit numeric not null,
		spent_today numeric not null,
		spent_week numeric not null,
		spent_month numeric not null,
		PRIMARY KEY(candidate_id, channel)
	);`

	// LearningStatsDropTableV1 SQL statement for table drop
	LearningStatsDropTableV1 string = `DROP TABLE IF EXISTS learning_stats_v1;`
	// LearningStatsTableV1 SQL statement for the learning stats table
	LearningStatsTableV1 string = `CREATE TABLE IF NOT EXISTS learning_stats_v1 (
		trigger_category varchar(100) not null,
		channel varchar(100) not null,
		donor_segment varchar(100) not null,
		total_sends bigint not null,
		total_opens bigint not null,
		total_clicks bigint not null,
		total_conversions bigint not null,
		total_revenue numeric not null,
		avg_roi numeric not null,
		updated_at timestamptz not null,
		PRIMARY KEY(trigger_category, channel, donor_segment)
	);`

	// JobSchedulesDropTableV1 SQL statement for table drop
	JobSchedulesDropTableV1 string = `DROP TABLE IF EXISTS job_schedules_v1;`
	// JobSchedulesTableV1 SQL statement for the job schedules table
	JobSchedulesTableV1 string = `CREATE TABLE IF NOT EXISTS job_schedules_v1 (
		id serial PRIMARY KEY,
		name varchar(100) not null,
		cronexpr varchar(100) not null,
		job_type varchar(100) not null,
		job_data json not null,
		enabled boolean not null,
		last_modified timestamptz not null
	);`
)
